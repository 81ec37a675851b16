// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides interactive input and cursor helpers.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt needs a terminal that is not available.
var ErrNotInteractive = errors.New("interactive input unavailable")

// Prompter reads answers to prompts from an input stream.
type Prompter struct {
	fd     int
	isTTY  bool
	out    io.Writer
	reader *bufio.Reader
}

// NewPrompter returns a Prompter reading from in and writing prompts to out.
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd())
	return &Prompter{
		fd:     fd,
		isTTY:  term.IsTerminal(fd),
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// newReaderPrompter builds a Prompter over a plain reader, never treated as a terminal.
func newReaderPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{fd: -1, out: out, reader: bufio.NewReader(in)}
}

// ReadLine prints prompt and reads one visible line.
// End of input before any character is typed yields ErrNotInteractive.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNotInteractive
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret prints prompt and reads a line without echo.
// It requires the input to be a terminal.
func (p *Prompter) ReadSecret(prompt string) (string, error) {
	if !p.isTTY {
		return "", ErrNotInteractive
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// HideCursor hides the cursor while a progress display is active.
func HideCursor() { cursor.Hide() }

// ShowCursor restores the cursor.
func ShowCursor() { cursor.Show() }
