package achievements

import "errors"

var ErrValidation = errors.New("validation error")
