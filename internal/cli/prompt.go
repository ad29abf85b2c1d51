/*
Copyright 2025 Piotr Janik.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for values not given on the command line
type Prompter interface {
	// Line reads a visible line of input
	Line(label string) (string, error)

	// Secret reads input without echoing it
	Secret(label string) (string, error)
}

// TerminalPrompter prompts on stderr and reads from stdin
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter bound to the process terminal
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:     os.Stdin,
		out:    os.Stderr,
		reader: bufio.NewReader(os.Stdin),
	}
}

func (p *TerminalPrompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	value, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || value == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(value), nil
}

func (p *TerminalPrompter) Secret(label string) (string, error) {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.Line(label)
	}

	fmt.Fprintf(p.out, "%s: ", label)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(value), nil
}
