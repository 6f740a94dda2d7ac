// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

// Process exit codes are part of the operator contract: wrapper scripts key
// off them to decide whether to relaunch the shell.
const (
	// ExitOK is the clean-exit code ("exit" command, EOF on stdin).
	ExitOK = 0

	// ExitFatal is returned after an unexpected internal failure has been
	// logged by the top-level handler.
	ExitFatal = 1

	// ExitRestart is returned by the "refresh" command to request that the
	// supervising script relaunch the shell.
	ExitRestart = 7

	// ExitSelfDeleted is returned when a non-administrator deletes their own
	// account; the session cannot continue because its identity is gone.
	ExitSelfDeleted = 9
)
