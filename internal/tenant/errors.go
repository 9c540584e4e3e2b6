package tenant

import "errors"

var (
	ErrNotFound = errors.New("tenant not found")
	ErrInvalid  = errors.New("invalid tenant")
	ErrExists   = errors.New("application already has a tenant")
)
