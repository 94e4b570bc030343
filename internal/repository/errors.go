package repository

import (
	"errors"
	"fmt"
)

var (
	ErrQuery  = errors.New("database query failed")
	ErrInsert = errors.New("database insert failed")
	ErrUpdate = errors.New("database update failed")
	ErrDelete = errors.New("database delete failed")

	// ErrInvalidSort is returned when a sort column or direction is not allowed for a source.
	ErrInvalidSort = errors.New("invalid sort")
)

// OpError wraps a driver failure with the operation kind and the statement that failed.
// errors.Is matches both the kind sentinel and the underlying driver error.
type OpError struct {
	Kind  error
	Query string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func opError(kind error, query string, err error) error {
	return &OpError{Kind: kind, Query: query, Err: err}
}
