// Package errors defines error types and utilities for the query engine
package errors

import (
	"errors"
	"fmt"
)

// Common errors that can occur while compiling qualifiers and running queries
var (
	// ErrInvalidArgument is returned when a qualifier is constructed or used
	// with values that violate its invariants (e.g. IN with a non-list value)
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedOperation is returned when an operation/value-type
	// combination has no filter expression representation
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrScansDisabled is returned when a query resolves to neither a
	// compiled secondary-index filter nor a caller-supplied one and
	// unfiltered scans are not enabled
	ErrScansDisabled = errors.New("query without a filter will initiate a scan. " +
		"Since scans are potentially dangerous operations, they are disabled by default. " +
		"If you still need to use them, enable them via the scans_enabled setting")

	// ErrStoreRequest is returned when the Aerospike client fails to execute
	// a request; the underlying client error is attached unchanged
	ErrStoreRequest = errors.New("store request failed")

	// ErrInvalidKey is returned when a key qualifier cannot produce a valid
	// primary key for the target namespace and set
	ErrInvalidKey = errors.New("invalid primary key")
)

// QueryError represents a detailed error with the operation that produced it
type QueryError struct {
	Op  string // Operation that failed, e.g. "compile" or "select"
	Err error  // Underlying error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("aerospike: %s operation failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error
func (e *QueryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new QueryError
func NewError(op string, err error) *QueryError {
	return &QueryError{
		Op:  op,
		Err: err,
	}
}

// IsInvalidArgument checks if an error indicates a malformed qualifier
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsUnsupportedOperation checks if an error indicates an operation with no
// expression representation
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsScansDisabled checks if an error indicates a rejected unfiltered scan
func IsScansDisabled(err error) bool {
	return errors.Is(err, ErrScansDisabled)
}

// IsStoreRequest checks if an error originated in the store client
func IsStoreRequest(err error) bool {
	return errors.Is(err, ErrStoreRequest)
}
