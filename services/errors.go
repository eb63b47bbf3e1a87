package services

import "errors"

var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("item not available")
	ErrTotalMismatch     = errors.New("total amount does not match catalog prices")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)
