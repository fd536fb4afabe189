package models

import "errors"

// Error kinds returned by the rule engine and services. Callers match them with
// errors.Is; wrapped messages carry the detail.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("record not found")
	ErrValidation        = errors.New("validation failed")
)
