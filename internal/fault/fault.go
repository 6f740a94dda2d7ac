// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fault classifies expected failure modes of shell operations into a
// small closed taxonomy. Command handlers match on the Kind of an error to
// decide whether to print a notice and continue, count the failure against
// the lockout budget, or escalate to the top-level fatal handler.
//
// Anything that is not a *fault.Error is treated as fatal by callers.
package fault

import (
	"errors"
	"fmt"
)

// Kind identifies one class of expected failure.
type Kind int

const (
	// Validation covers bad credential syntax, bad paths and bad command
	// syntax. Always recoverable; the command loop continues.
	Validation Kind = iota + 1

	// Authorization covers policy denials and privilege shortfalls.
	Authorization

	// Authentication covers wrong secrets. Recoverable, but counted against
	// the lockout budget by the authentication manager.
	Authentication

	// Resource covers missing files/directories and an unavailable record
	// store. Reported per entry during bulk operations.
	Resource
)

// String implements fmt.Stringer for log output.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case Authentication:
		return "authentication"
	case Resource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is a classified, operator-recoverable failure. It wraps an underlying
// error so sentinel matching with errors.Is keeps working through the
// classification layer.
type Error struct {
	kind Kind
	err  error
}

// New builds a classified error from a plain message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, err: errors.New(msg)}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, err: fmt.Errorf(format, args...)}
}

// Wrap attaches a Kind to an existing error. Returns nil if err is nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

// Kind returns the failure class of the error.
func (e *Error) Kind() Kind { return e.kind }

// KindOf extracts the Kind of err, unwrapping as needed. Returns 0 (no kind)
// for nil errors and for errors that carry no classification; callers must
// treat the latter as fatal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return 0
}

// IsRecoverable reports whether err belongs to the closed taxonomy of
// expected failures.
func IsRecoverable(err error) bool {
	return KindOf(err) != 0
}
