package message

import "errors"

var (
	ErrNotFound        = errors.New("message not found")
	ErrInvalid         = errors.New("invalid message")
	ErrNotMaintenance  = errors.New("message is not a maintenance request")
	ErrAlreadyApproved = errors.New("maintenance request already approved")
)
