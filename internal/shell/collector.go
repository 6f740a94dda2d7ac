// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/MKhiriev/vosh/internal/app"
	"github.com/MKhiriev/vosh/internal/service"
)

// readPassword is a test seam for term.ReadPassword. In tests replace it
// with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// consoleCollector reads interactive answers from the console. Secrets go
// through the terminal with echo disabled; without a terminal attached it
// degrades to visible reads after warning the operator once.
type consoleCollector struct {
	in     *bufio.Reader
	out    io.Writer
	warned bool
}

// NewCollector returns a console-backed input collector.
func NewCollector(in *bufio.Reader, out io.Writer) service.Collector {
	return &consoleCollector{in: in, out: out}
}

// Text prints prompt and reads one visible line. A partial line at EOF is
// still returned.
func (c *consoleCollector) Text(prompt string) (string, error) {
	if _, err := fmt.Fprint(c.out, prompt); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret prints prompt and reads one line with echo disabled.
func (c *consoleCollector) Secret(prompt string) (string, error) {
	if !isTerminal(int(os.Stdin.Fd())) {
		if !c.warned {
			c.Notice(app.MsgNoConsole)
			c.warned = true
		}
		return c.Text(prompt)
	}

	if _, err := fmt.Fprint(c.out, prompt); err != nil {
		return "", err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Confirmed reads a secret twice and keeps re-prompting until both entries
// agree.
func (c *consoleCollector) Confirmed(prompt string) (string, error) {
	for {
		first, err := c.Secret(prompt)
		if err != nil {
			return "", err
		}
		second, err := c.Secret("Confirm: ")
		if err != nil {
			return "", err
		}
		if first == second {
			return first, nil
		}
		c.Notice(app.MsgEntriesDoNotMatch)
	}
}

// YesNo asks until the answer parses as yes or no.
func (c *consoleCollector) YesNo(prompt string) (bool, error) {
	for {
		answer, err := c.Text(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.Notice(`please answer "y" or "n"`)
	}
}

// Notice prints an informational line.
func (c *consoleCollector) Notice(message string) {
	fmt.Fprintln(c.out, styleNotice.Render(message))
}
