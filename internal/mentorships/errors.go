package mentorships

import "errors"

var (
	ErrNotFound          = errors.New("mentorship not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("mentorship already exists")
	ErrForbidden         = errors.New("not allowed for this participant")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrClosed            = errors.New("mentorship is closed")
	ErrLLMUnavailable    = errors.New("mentor matching unavailable")
)
