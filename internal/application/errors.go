package application

import "errors"

var (
	ErrNotFound          = errors.New("application not found")
	ErrInvalid           = errors.New("invalid application")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotApproved       = errors.New("only approved applications can be converted")
	ErrAlreadyConverted  = errors.New("application already converted to a tenant")
	ErrScreeningLinked   = errors.New("application already has a screening")
)
