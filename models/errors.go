package models

import "errors"

// Error taxonomy. Domain errors wrap one of these so handlers can map
// them to a response without knowing every specific error.
var (
	ErrValidation   = errors.New("validation failure")
	ErrNotFound     = errors.New("not found")
	ErrReadFailure  = errors.New("inventory store read failure")
	ErrWriteFailure = errors.New("inventory store write failure")
	ErrConflict     = errors.New("inventory changed since it was read")
)
