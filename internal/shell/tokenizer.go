// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package shell implements the interactive command interpreter: the login
// and command loops, quote-aware tokenization, console input collection and
// script replay.
package shell

import (
	"strings"
	"unicode"
)

// Tokenize splits a command line on whitespace, honoring double quotes so an
// argument may carry spaces. A quoted empty string is a real (empty) token.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inQuote := false
	pending := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case !inQuote && unicode.IsSpace(r):
			if pending {
				tokens = append(tokens, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if pending {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
