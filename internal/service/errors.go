package service

import "errors"

// Error taxonomy surfaced to the handler layer. Repository implementations
// wrap these so callers can map them with errors.Is.
var (
	// ErrNotFound means a referenced loan, receipt or scheme does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState means the operation is not allowed in the entity's
	// current status, e.g. updating a cancelled receipt.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means the request was rejected before any calculation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means a concurrent settlement touched the same loan. The
	// caller should retry once with a fresh read.
	ErrConflict = errors.New("concurrent update conflict")
)
