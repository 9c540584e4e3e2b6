package workorder

import "errors"

var (
	ErrNotFound = errors.New("work order not found")
	ErrInvalid  = errors.New("invalid work order")
	ErrExists   = errors.New("request already has a work order")
)
