package skills

import "errors"

var (
	ErrNotFound   = errors.New("skill not found")
	ErrValidation = errors.New("validation error")
)
