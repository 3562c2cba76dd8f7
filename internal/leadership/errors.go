package leadership

import "errors"

var (
	ErrNotFound       = errors.New("leadership assessment not found")
	ErrInvalidRecord  = errors.New("leadership assessment record is invalid")
	ErrLLMUnavailable = errors.New("leadership prediction unavailable")
)
