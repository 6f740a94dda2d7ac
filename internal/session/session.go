// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the in-memory record of the currently authenticated
// identity and its working directory. Exactly one Session lives per process;
// it is created empty at start, populated on successful login and cleared on
// logout.
package session

import (
	"path/filepath"
	"strings"

	"github.com/MKhiriev/vosh/models"
)

// Session is the mutable per-process session state. It is not safe for
// concurrent use; the shell is single-threaded by design.
type Session struct {
	username    string // hashed
	displayName string
	isAdmin     bool
	unlockPIN   string // hashed, cached from the user record at login
	homeDir     string
	currentDir  string
	systemName  string
}

// New returns a Session in the unauthenticated sentinel state.
func New() *Session {
	return &Session{}
}

// Begin populates the session from an authenticated record. homeDir becomes
// both the jail root and the initial working directory.
func (s *Session) Begin(rec models.UserRecord, homeDir, systemName string) {
	s.username = rec.HashedUsername
	s.displayName = rec.DisplayName
	s.isAdmin = rec.IsAdmin
	s.unlockPIN = rec.HashedPIN
	s.homeDir = homeDir
	s.currentDir = homeDir
	s.systemName = systemName
}

// Clear resets the session to the unauthenticated sentinel state.
func (s *Session) Clear() {
	*s = Session{}
}

// Authenticated reports whether a login has populated the session.
func (s *Session) Authenticated() bool {
	return s.username != ""
}

func (s *Session) Username() string    { return s.username }
func (s *Session) DisplayName() string { return s.displayName }
func (s *Session) IsAdmin() bool       { return s.isAdmin }
func (s *Session) UnlockPIN() string   { return s.unlockPIN }
func (s *Session) HomeDir() string     { return s.homeDir }
func (s *Session) CurrentDir() string  { return s.currentDir }

// SetCurrentDir moves the working directory. Callers must have resolved dir
// through the path jail first; the session itself does not re-check.
func (s *Session) SetCurrentDir(dir string) {
	s.currentDir = dir
}

// DisplayDir renders the working directory relative to home ("~", "~/notes").
func (s *Session) DisplayDir() string {
	if s.currentDir == "" || s.homeDir == "" {
		return ""
	}

	rel, err := filepath.Rel(s.homeDir, s.currentDir)
	if err != nil {
		return s.currentDir
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// Prompt renders the shell prompt for the current identity, e.g.
//
//	vos-1b9d6bcd:alice ~/notes $
//
// Administrators get "#" instead of "$".
func (s *Session) Prompt() string {
	if !s.Authenticated() {
		return promptStyleHost.Render(s.systemNameOrDefault()) + " login: "
	}

	char := "$"
	if s.isAdmin {
		char = "#"
	}

	var b strings.Builder
	b.WriteString(promptStyleHost.Render(s.systemNameOrDefault()))
	b.WriteString(":")
	b.WriteString(promptStyleUser.Render(s.displayName))
	b.WriteString(" ")
	b.WriteString(promptStyleDir.Render(s.DisplayDir()))
	b.WriteString(" ")
	b.WriteString(char)
	b.WriteString(" ")
	return b.String()
}

func (s *Session) systemNameOrDefault() string {
	if s.systemName == "" {
		return "vosh"
	}
	return s.systemName
}
