package service

import "errors"

// Common service errors
var (
	// ErrClientNotFound is returned when no client has the requested id
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
