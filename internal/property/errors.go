package property

import "errors"

var (
	ErrNotFound = errors.New("property not found")
	ErrInvalid  = errors.New("invalid property")
)
