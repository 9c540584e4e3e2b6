package screening

import "errors"

var (
	ErrNotFound       = errors.New("screening not found")
	ErrInvalid        = errors.New("invalid screening")
	ErrFinalized      = errors.New("screening already completed")
	ErrIncomplete     = errors.New("screening checks are not all complete")
	ErrNotCompleted   = errors.New("screening must be completed before a decision")
	ErrAlreadyDecided = errors.New("screening already has a decision")
)
