// Package errors provides error handling for Chimera.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrAtomNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across Chimera.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrAtomNotFound indicates the requested atom does not exist in the AtomSpace
	ErrAtomNotFound = New("atom not found")

	// ErrProcNotFound indicates the requested cognitive process does not exist
	ErrProcNotFound = New("process not found")

	// ErrInvalidPath indicates a CogFS path does not resolve to a handle
	ErrInvalidPath = New("invalid path")

	// ErrUnknownRule indicates an inference rule name is not recognized
	ErrUnknownRule = New("unknown inference rule")

	// ErrPremiseMismatch indicates inference premises do not fit the rule shape
	ErrPremiseMismatch = New("premises do not match rule")

	// ErrUnknownSyscall indicates a kernel syscall name is not recognized
	ErrUnknownSyscall = New("unknown syscall")

	// ErrDimensionMismatch indicates a state vector has the wrong dimension
	ErrDimensionMismatch = New("dimension mismatch")

	// ErrTokenOutOfRange indicates a token does not decode within its block
	ErrTokenOutOfRange = New("token out of range")

	// ErrImmutableTrait indicates an attempt to modify an ethical constraint
	ErrImmutableTrait = New("ethical constraint is immutable")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = New("operation timed out")
)

// IsAtomNotFound checks if an error is or wraps ErrAtomNotFound
func IsAtomNotFound(err error) bool {
	return err != nil && Is(err, ErrAtomNotFound)
}

// IsInvalidPath checks if an error is or wraps ErrInvalidPath
func IsInvalidPath(err error) bool {
	return err != nil && Is(err, ErrInvalidPath)
}

// NewAtomNotFound creates an atom-not-found error with a formatted message
func NewAtomNotFound(format string, args ...interface{}) error {
	return Wrap(ErrAtomNotFound, Newf(format, args...).Error())
}
