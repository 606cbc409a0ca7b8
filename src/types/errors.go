package types

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrSlotFull          = errors.New("slot is full")
	ErrSlotUnavailable   = errors.New("slot is not available")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotLocked         = errors.New("booking is no longer locked")
	ErrInUse             = errors.New("resource is in use")
)
