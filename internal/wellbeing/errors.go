package wellbeing

import "errors"

var ErrValidation = errors.New("validation error")
