package domain

import "errors"

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnection indicates the data source could not be reached
	ErrConnection = errors.New("connection failed")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)
