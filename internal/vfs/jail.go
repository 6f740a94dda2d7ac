// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vfs confines all file management to a per-user home directory and
// implements the copy, move, delete and listing operations on top of that
// boundary. Every path taken from operator input goes through [Jail.Resolve]
// before any filesystem call.
package vfs

import (
	"path/filepath"
	"strings"

	"github.com/MKhiriev/vosh/internal/fault"
)

// Jail binds path resolution to a root directory. A Jail never performs
// filesystem I/O; it only normalizes and checks candidate paths.
type Jail struct {
	root string
}

// NewJail returns a Jail rooted at root. root is cleaned once at
// construction so prefix checks stay consistent.
func NewJail(root string) *Jail {
	return &Jail{root: filepath.Clean(root)}
}

// Root returns the jail root.
func (j *Jail) Root() string {
	return j.root
}

// Resolve joins input against current and verifies the result stays inside
// the jail. Empty input resolves to current itself. Escaping paths return
// [ErrOutsideJail] wrapped as a validation fault; the caller's state is
// never changed here.
func (j *Jail) Resolve(current, input string) (string, error) {
	if input == "" {
		return current, nil
	}

	candidate := input
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(current, candidate)
	}
	candidate = filepath.Clean(candidate)

	if !j.Contains(candidate) {
		return "", fault.Wrap(fault.Validation, ErrOutsideJail)
	}
	return candidate, nil
}

// Contains reports whether path (already cleaned) lies under the jail root.
func (j *Jail) Contains(path string) bool {
	if path == j.root {
		return true
	}
	return strings.HasPrefix(path, j.root+string(filepath.Separator))
}
