// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/vosh/internal/fault"
	"github.com/MKhiriev/vosh/internal/service"
)

// scriptEnd terminates replay; anything after it is ignored.
const scriptEnd = "@end"

// runScript replays a command file line by line as if the operator had typed
// each one. Blank lines and "#" comments are skipped. A failing line is
// reported and replay continues, matching interactive behavior; control-flow
// results (logout, exit, self-deletion) stop replay and propagate.
func (s *Shell) runScript(ctx context.Context, name string) error {
	if s.inScript {
		return fault.Wrap(fault.Validation, ErrNestedScript)
	}

	path, err := s.files.Resolve(s.session.CurrentDir(), name)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fault.Newf(fault.Resource, "script %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	s.inScript = true
	defer func() { s.inScript = false }()

	terminated := false
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == scriptEnd {
			terminated = true
			break
		}

		s.println(s.session.Prompt() + line)
		if runErr := s.execute(ctx, line); runErr != nil {
			if isControlFlow(runErr) {
				return runErr
			}
			fmt.Fprintln(s.out, styleError.Render(fmt.Sprintf("line %d: %s", lineNo, operatorMessage(runErr))))
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return fault.Wrap(fault.Resource, scanErr)
	}
	if !terminated {
		return fault.Wrap(fault.Validation, ErrScriptMissingEnd)
	}
	return nil
}

// isControlFlow reports whether err must stop replay and bubble up to the
// command loop.
func isControlFlow(err error) bool {
	return errors.Is(err, errQuit) ||
		errors.Is(err, errLogout) ||
		errors.Is(err, errRestart) ||
		errors.Is(err, service.ErrSelfDeleted)
}
