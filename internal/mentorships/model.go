package mentorships

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"pathways-backend/internal/profiles"
)

const (
	Table         = "mentorships"
	MessagesTable = "chat_messages"
)

// Status is the lifecycle state of a mentorship.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDeclined  Status = "declined"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// Open reports whether participants may still exchange messages.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusActive
}

// Mentorship pairs a mentor with a mentee.
type Mentorship struct {
	ID        string    `json:"id"`
	MentorID  string    `json:"mentor_id"`
	MenteeID  string    `json:"mentee_id"`
	Status    Status    `json:"status"`
	FocusArea string    `json:"focus_area"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleOf returns "mentor" or "mentee" for a participant, or "" otherwise.
func (m Mentorship) RoleOf(userID string) string {
	switch userID {
	case m.MentorID:
		return "mentor"
	case m.MenteeID:
		return "mentee"
	}
	return ""
}

// NewMentorship is a mentee's request for a mentor.
type NewMentorship struct {
	MentorID  string `json:"mentor_id"`
	FocusArea string `json:"focus_area"`
}

const maxFocusArea = 200

func (n *NewMentorship) Validate(menteeID string) error {
	n.MentorID = strings.TrimSpace(n.MentorID)
	n.FocusArea = strings.TrimSpace(n.FocusArea)
	if n.MentorID == "" {
		return fmt.Errorf("%w: mentor_id is required", ErrValidation)
	}
	if n.MentorID == menteeID {
		return fmt.Errorf("%w: cannot request yourself as mentor", ErrValidation)
	}
	if utf8.RuneCountInString(n.FocusArea) > maxFocusArea {
		return fmt.Errorf("%w: focus_area must be at most %d characters", ErrValidation, maxFocusArea)
	}
	return nil
}

// ChatMessage is one message inside a mentorship.
type ChatMessage struct {
	ID           string    `json:"id"`
	MentorshipID string    `json:"mentorship_id"`
	SenderID     string    `json:"sender_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

const maxMessageLen = 4000

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is required", ErrValidation)
	}
	if utf8.RuneCountInString(content) > maxMessageLen {
		return "", fmt.Errorf("%w: content must be at most %d characters", ErrValidation, maxMessageLen)
	}
	return content, nil
}

// Match is a candidate mentor, optionally ranked by the LLM.
type Match struct {
	Mentor profiles.Profile `json:"mentor"`
	Score  *float64         `json:"score,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// Matches is the result of mentor matching. Ranked is false when the
// candidates are returned in their stored order.
type Matches struct {
	Matches []Match `json:"matches"`
	Ranked  bool    `json:"ranked"`
}

type rankedMatches struct {
	Matches []struct {
		MentorID string      `json:"mentor_id"`
		Score    json.Number `json:"score"`
		Reason   string      `json:"reason"`
	} `json:"matches"`
}
