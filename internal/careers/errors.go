package careers

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrLLMUnavailable = errors.New("career assistant unavailable")
)
