package profiles

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Table is the BaaS table holding profiles.
const Table = "users"

// Profile is an employee's career profile.
type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	JobTitle        string    `json:"job_title"`
	Department      string    `json:"department"`
	YearsExperience int       `json:"years_experience"`
	CareerGoals     string    `json:"career_goals"`
	Bio             string    `json:"bio"`
	IsMentor        bool      `json:"is_mentor"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Update is a partial profile change; nil fields are left untouched.
type Update struct {
	FullName        *string    `json:"full_name,omitempty"`
	JobTitle        *string    `json:"job_title,omitempty"`
	Department      *string    `json:"department,omitempty"`
	YearsExperience *int       `json:"years_experience,omitempty"`
	CareerGoals     *string    `json:"career_goals,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	IsMentor        *bool      `json:"is_mentor,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

var textLimits = []struct {
	name  string
	limit int
	field func(*Update) *string
}{
	{"full_name", 200, func(u *Update) *string { return u.FullName }},
	{"job_title", 200, func(u *Update) *string { return u.JobTitle }},
	{"department", 200, func(u *Update) *string { return u.Department }},
	{"career_goals", 2000, func(u *Update) *string { return u.CareerGoals }},
	{"bio", 2000, func(u *Update) *string { return u.Bio }},
}

// Validate trims text fields and checks bounds.
func (u *Update) Validate() error {
	empty := true
	for _, tl := range textLimits {
		p := tl.field(u)
		if p == nil {
			continue
		}
		empty = false
		*p = strings.TrimSpace(*p)
		if utf8.RuneCountInString(*p) > tl.limit {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, tl.name, tl.limit)
		}
	}
	if u.YearsExperience != nil {
		empty = false
		if *u.YearsExperience < 0 || *u.YearsExperience > 70 {
			return fmt.Errorf("%w: years_experience must be between 0 and 70", ErrValidation)
		}
	}
	if u.IsMentor != nil {
		empty = false
	}
	if empty {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	return nil
}

func (u Update) apply(p *Profile) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.JobTitle != nil {
		p.JobTitle = *u.JobTitle
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	if u.YearsExperience != nil {
		p.YearsExperience = *u.YearsExperience
	}
	if u.CareerGoals != nil {
		p.CareerGoals = *u.CareerGoals
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.IsMentor != nil {
		p.IsMentor = *u.IsMentor
	}
}
