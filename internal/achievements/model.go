package achievements

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Table is the BaaS table holding achievements.
const Table = "achievements"

type Achievement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	EarnedAt    time.Time `json:"earned_at"`
}

// NewAchievement is the payload for recording an achievement. EarnedAt
// defaults to the time of recording.
type NewAchievement struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

func (a *NewAchievement) Validate(now time.Time) error {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.Category = strings.TrimSpace(a.Category)
	switch {
	case a.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case utf8.RuneCountInString(a.Title) > 200:
		return fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	case utf8.RuneCountInString(a.Description) > 2000:
		return fmt.Errorf("%w: description must be at most 2000 characters", ErrValidation)
	case a.EarnedAt != nil && a.EarnedAt.After(now.Add(24*time.Hour)):
		return fmt.Errorf("%w: earned_at cannot be in the future", ErrValidation)
	}
	if a.EarnedAt == nil {
		t := now.UTC()
		a.EarnedAt = &t
	}
	return nil
}
