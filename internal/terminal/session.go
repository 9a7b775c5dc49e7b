// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package terminal provides the narrow I/O surface the credential resolver
// talks to: prompting (with and without echo), yes/no confirmation, prefixed
// status lines, and controlled process exit.
//
// Keeping the surface behind the Session interface lets the resolver run
// against a scripted fake in tests with zero real terminal I/O.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Session is the terminal capability set consumed by the resolver and the
// management commands.
type Session interface {
	// PromptHidden displays message and reads a line without echoing it.
	PromptHidden(message string) (string, error)

	// PromptLine displays message and reads a line with normal echo.
	PromptLine(message string) (string, error)

	// Confirm displays a yes/no prompt. Empty or ambiguous input counts
	// as "no".
	Confirm(message string) (bool, error)

	// PrintStatus prints a status line prefixed with the program name.
	PrintStatus(message string, isError bool)

	// ExitProcess prints message and terminates the process with exit
	// code 0 (isError false) or 1 (isError true).
	ExitProcess(message string, isError bool)
}

// affirmations are the responses Confirm accepts as "yes", after
// lower-casing and stripping surrounding quotes.
var affirmations = []string{"y", "yes"}

// Terminal implements Session on a real (or piped) terminal.
type Terminal struct {
	name   string
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
	exit   func(code int)
}

// New returns a Terminal bound to stdin/stdout that exits via os.Exit.
// name becomes the prefix on status lines.
func New(name string) *Terminal {
	return NewWithIO(name, os.Stdin, os.Stdout, os.Exit)
}

// NewWithIO is the injectable constructor used by tests: in may be a pipe,
// out a buffer, and exit a recording function. If in is not an *os.File or
// not a TTY, masked prompts fall back to plain line reads.
func NewWithIO(name string, in io.Reader, out io.Writer, exit func(code int)) *Terminal {
	file, _ := in.(*os.File)
	return &Terminal{
		name:   name,
		in:     file,
		reader: bufio.NewReader(in),
		out:    out,
		exit:   exit,
	}
}

// PromptHidden implements [Session]. On a TTY the input is read with echo
// disabled and a masked placeholder is printed in its place; otherwise it
// degrades to a plain line read so pipes and tests keep working.
func (t *Terminal) PromptHidden(message string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", message)

	if t.in != nil && term.IsTerminal(int(t.in.Fd())) {
		raw, err := term.ReadPassword(int(t.in.Fd()))
		if err != nil {
			return "", fmt.Errorf("read hidden input: %w", err)
		}
		input := strings.TrimSpace(string(raw))
		fmt.Fprintln(t.out, strings.Repeat("*", len(input)))
		return input, nil
	}

	return t.readLine()
}

// PromptLine implements [Session].
func (t *Terminal) PromptLine(message string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", message)
	return t.readLine()
}

// Confirm implements [Session]. The suffix spells out the accepted
// responses; anything else, including an empty line, means "no".
func (t *Terminal) Confirm(message string) (bool, error) {
	fmt.Fprintf(t.out, "%s If so, type \"yes\" or \"y\": ", message)

	input, err := t.readLine()
	if err != nil {
		return false, err
	}

	input = strings.ToLower(strings.Trim(input, `'"`))
	for _, affirmation := range affirmations {
		if input == affirmation {
			return true, nil
		}
	}
	return false, nil
}

// PrintStatus implements [Session]. Error lines go to the same stream as
// regular ones; the distinction exists for callers that want to style them.
func (t *Terminal) PrintStatus(message string, isError bool) {
	prefix := t.name
	if isError {
		prefix += ": error"
	}
	fmt.Fprintf(t.out, "%s: %s\n", prefix, message)
}

// ExitProcess implements [Session].
func (t *Terminal) ExitProcess(message string, isError bool) {
	if message != "" {
		fmt.Fprintf(t.out, "%s Exiting process.\n", message)
	}
	if isError {
		t.exit(1)
		return
	}
	t.exit(0)
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
