package profiles

import "errors"

var (
	ErrNotFound   = errors.New("profile not found")
	ErrValidation = errors.New("validation error")
)
