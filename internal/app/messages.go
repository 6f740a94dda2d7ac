// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// vosh shell, account and file-management handlers.
//
// All Msg* constants are human-readable message strings that are written to
// the operator console or log entries to describe the outcome of an
// operation. Keeping them in one place ensures consistent wording throughout
// the shell.
package app

const (
	// MsgInvalidCredentials is printed when the supplied username, password
	// or security key does not match any enrolled record.
	MsgInvalidCredentials = "invalid username, password or security key"

	// MsgLockedOut is printed when the authentication attempt budget has
	// been exhausted and the cooldown is about to be enforced.
	MsgLockedOut = "too many failed attempts; please wait"

	// MsgAccessDenied is printed when a policy key gates an operation off
	// for a non-administrator caller.
	MsgAccessDenied = "access denied by system policy"

	// MsgAdminOnly is printed when a standard-privilege caller invokes an
	// administrator-only operation.
	MsgAdminOnly = "this operation requires administrator privileges"

	// MsgPathOutsideHome is printed when path resolution would escape the
	// session's home directory.
	MsgPathOutsideHome = "path is outside your home directory"

	// MsgCommandNotFound is printed for an unrecognised command word.
	MsgCommandNotFound = "command not found"

	// MsgNoSuchEntry is printed when a file or directory argument does not
	// exist inside the jail.
	MsgNoSuchEntry = "no such file or directory"

	// MsgEntriesDoNotMatch is printed when two entries of a confirmed secret
	// prompt differ.
	MsgEntriesDoNotMatch = "entries do not match, try again"

	// MsgAdministratorImmutable is printed on any attempt to delete, rename,
	// promote or demote the canonical Administrator record.
	MsgAdministratorImmutable = "the Administrator account cannot be changed"

	// MsgInternalError is printed when an unexpected internal failure is
	// about to terminate the process.
	MsgInternalError = "an internal error occurred"

	// MsgNoConsole is logged when no interactive console is attached and
	// secret-dependent flows are disabled.
	MsgNoConsole = "no interactive console available; secret input disabled"
)
