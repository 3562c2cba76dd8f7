package skills

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Table is the BaaS table holding skills.
const Table = "skills"

// Skill is a self-assessed skill of a user.
type Skill struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Proficiency int       `json:"proficiency"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSkill is the payload for adding a skill.
type NewSkill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
}

// Validate trims s and checks its fields.
func (s *NewSkill) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case utf8.RuneCountInString(s.Name) > 100:
		return fmt.Errorf("%w: name must be at most 100 characters", ErrValidation)
	case utf8.RuneCountInString(s.Category) > 50:
		return fmt.Errorf("%w: category must be at most 50 characters", ErrValidation)
	case s.Proficiency < 1 || s.Proficiency > 5:
		return fmt.Errorf("%w: proficiency must be between 1 and 5", ErrValidation)
	}
	return nil
}
