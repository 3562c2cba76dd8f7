package wellbeing

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Table is the BaaS table holding check-ins.
const Table = "wellbeing_entries"

// Entry is one wellbeing check-in.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Mood        int       `json:"mood"`
	StressLevel int       `json:"stress_level"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEntry is the payload for a check-in.
type NewEntry struct {
	Mood        int    `json:"mood"`
	StressLevel int    `json:"stress_level"`
	Notes       string `json:"notes"`
}

func (e *NewEntry) Validate() error {
	e.Notes = strings.TrimSpace(e.Notes)
	switch {
	case e.Mood < 1 || e.Mood > 5:
		return fmt.Errorf("%w: mood must be between 1 and 5", ErrValidation)
	case e.StressLevel < 1 || e.StressLevel > 5:
		return fmt.Errorf("%w: stress_level must be between 1 and 5", ErrValidation)
	case utf8.RuneCountInString(e.Notes) > 2000:
		return fmt.Errorf("%w: notes must be at most 2000 characters", ErrValidation)
	}
	return nil
}
