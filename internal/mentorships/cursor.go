package mentorships

import (
	"fmt"
	"strings"
	"time"
)

const cursorSep = "|"

// Cursor marks a position in a conversation. Messages are ordered by
// (created_at, id), so two messages sharing a timestamp are still told apart.
// An empty ID means "strictly after At".
type Cursor struct {
	At time.Time
	ID string
}

// CursorOf returns the position of m.
func CursorOf(m ChatMessage) Cursor {
	return Cursor{At: m.CreatedAt, ID: m.ID}
}

// IsZero reports whether c points at the beginning of the conversation.
func (c Cursor) IsZero() bool { return c.At.IsZero() }

// Before reports whether m comes after the cursor position.
func (c Cursor) Before(m ChatMessage) bool {
	if c.IsZero() {
		return true
	}
	switch cmp := m.CreatedAt.Compare(c.At); {
	case cmp > 0:
		return true
	case cmp < 0:
		return false
	default:
		return c.ID != "" && m.ID > c.ID
	}
}

// String encodes c as "<RFC3339Nano>|<id>", the form used for SSE event ids.
func (c Cursor) String() string {
	if c.IsZero() {
		return ""
	}
	s := c.At.UTC().Format(time.RFC3339Nano)
	if c.ID != "" {
		s += cursorSep + c.ID
	}
	return s
}

// ParseCursor accepts a bare RFC3339 timestamp or the String form.
func ParseCursor(raw string) (Cursor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Cursor{}, nil
	}
	ts, id, _ := strings.Cut(raw, cursorSep)
	at, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: since must be an RFC3339 timestamp", ErrValidation)
	}
	return Cursor{At: at, ID: strings.TrimSpace(id)}, nil
}
