// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompt asks the user questions, either through pterm's interactive
// widgets on a terminal or through plain numbered lines everywhere else.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"
)

var ErrNoOptions = errors.Base("no options to choose from")

// 💬 Prompter asks the user for decisions
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Input(prompt string) (string, error)
	Select(prompt string, options []string) (int, error)
}

// -- Line Reader --

// 📥 LineReader reads newline terminated input, printing a prompt first.
// The shell loop and the line prompter share one reader so buffered input is
// never lost between them.
type LineReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineReader creates a reader over in that writes prompts to out
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &LineReader{scanner: scanner, out: out}
}

// ReadLine prints prompt and returns the next line without its newline.
// io.EOF is returned once input is exhausted.
func (r *LineReader) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", errors.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

// Out returns the writer prompts go to
func (r *LineReader) Out() io.Writer { return r.out }

// -- Line Prompter --

// 📝 LinePrompter asks questions one line at a time
type LinePrompter struct {
	r *LineReader
}

// NewLinePrompter creates a prompter over a shared line reader
func NewLinePrompter(r *LineReader) *LinePrompter {
	return &LinePrompter{r: r}
}

// Confirm accepts y/yes and n/no; an empty answer means no
func (p *LinePrompter) Confirm(prompt string) (bool, error) {
	for {
		line, err := p.r.ReadLine(prompt + " [y/N]: ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.r.out, "Please answer y or n.")
	}
}

// Input returns the trimmed answer
func (p *LinePrompter) Input(prompt string) (string, error) {
	line, err := p.r.ReadLine(prompt + ": ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Select lists numbered options and accepts a number or an option's name
func (p *LinePrompter) Select(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.WithStack(ErrNoOptions)
	}

	fmt.Fprintln(p.r.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(p.r.out, "  %d) %s\n", i+1, opt)
	}

	for {
		line, err := p.r.ReadLine(fmt.Sprintf("Choose [1-%d]: ", len(options)))
		if err != nil {
			return -1, err
		}
		if idx, ok := matchOption(strings.TrimSpace(line), options); ok {
			return idx, nil
		}
		fmt.Fprintln(p.r.out, "Invalid choice.")
	}
}

func matchOption(answer string, options []string) (int, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return -1, false
	}
	for i, opt := range options {
		if strings.EqualFold(opt, answer) {
			return i, true
		}
	}
	return -1, false
}

// -- Terminal Prompter --

// 🖥️ TerminalPrompter uses pterm's interactive widgets
type TerminalPrompter struct{}

func (TerminalPrompter) Confirm(prompt string) (bool, error) {
	ok, err := pterm.DefaultInteractiveConfirm.Show(prompt)
	if err != nil {
		return false, errors.Errorf("confirm prompt: %w", err)
	}
	return ok, nil
}

func (TerminalPrompter) Input(prompt string) (string, error) {
	answer, err := pterm.DefaultInteractiveTextInput.Show(prompt)
	if err != nil {
		return "", errors.Errorf("input prompt: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func (TerminalPrompter) Select(prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.WithStack(ErrNoOptions)
	}

	choice, err := pterm.DefaultInteractiveSelect.WithOptions(options).Show(prompt)
	if err != nil {
		return -1, errors.Errorf("select prompt: %w", err)
	}
	for i, opt := range options {
		if opt == choice {
			return i, nil
		}
	}
	return -1, errors.Errorf("unexpected selection %q", choice)
}

// 🎯 Auto picks the pterm prompter when in is an interactive terminal and the
// line prompter otherwise.
func Auto(in io.Reader, r *LineReader) Prompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return TerminalPrompter{}
	}
	return NewLinePrompter(r)
}
