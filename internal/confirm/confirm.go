// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package confirm implements the yes/no gate shown before torrents are removed.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt lists candidate names and reads a single Y/n answer.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Confirm prints names and asks once. A blank line means yes, "y" or "yes" (any case)
// means yes, anything else means no. End of input without an answer is a no.
func (p *Prompt) Confirm(names []string) (bool, error) {
	for _, name := range names {
		fmt.Fprintln(p.out, name)
	}
	fmt.Fprint(p.out, "The above torrents will be removed from the client (data is kept). Continue? (Y/n): ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	fmt.Fprintln(p.out)

	if errors.Is(err, io.EOF) && line == "" {
		return false, nil
	}

	return isAffirmative(line), nil
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
