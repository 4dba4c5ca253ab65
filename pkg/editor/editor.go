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

package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/prompt"
)

var ErrNoEditor = errors.Base("no supported editor found")

// BuiltinName is the choice offered for the line editor
const BuiltinName = "built-in"

// knownEditors are looked up on PATH in this order
var knownEditors = []string{"nano", "vim", "nvim"}

// ✏️ Editor opens files in an external editor or a minimal line editor
type Editor struct {
	prompter prompt.Prompter
	lines    *prompt.LineReader
	out      io.Writer

	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// Option configures an Editor
type Option func(*Editor)

// WithEnv replaces os.Getenv
func WithEnv(fn func(string) string) Option {
	return func(e *Editor) { e.getenv = fn }
}

// WithLookPath replaces exec.LookPath
func WithLookPath(fn func(string) (string, error)) Option {
	return func(e *Editor) { e.lookPath = fn }
}

// WithRunner replaces the process launcher
func WithRunner(fn func(ctx context.Context, name string, args ...string) error) Option {
	return func(e *Editor) { e.run = fn }
}

// 🏭 New creates an Editor. A nil lines reader disables the built-in editor.
func New(p prompt.Prompter, lines *prompt.LineReader, out io.Writer, opts ...Option) *Editor {
	e := &Editor{
		prompter: p,
		lines:    lines,
		out:      out,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runAttached,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func runAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// 🔍 Candidates lists the editors that could open a file, preferred first
func (e *Editor) Candidates() []string {
	var out []string
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(e.getenv(key)); v != "" {
			out = append(out, v)
			break
		}
	}
	for _, name := range knownEditors {
		if _, err := e.lookPath(name); err == nil {
			out = append(out, name)
		}
	}
	if e.lines != nil {
		out = append(out, BuiltinName)
	}
	return out
}

// 📝 Edit opens path and returns the name of the editor used. $VISUAL or
// $EDITOR wins outright; otherwise the user picks among what is installed.
func (e *Editor) Edit(ctx context.Context, path string) (string, error) {
	logger := zerolog.Ctx(ctx)

	candidates := e.Candidates()
	if len(candidates) == 0 {
		return "", errors.WithStack(ErrNoEditor)
	}

	choice := candidates[0]
	envEditor := strings.TrimSpace(e.getenv("VISUAL")) != "" || strings.TrimSpace(e.getenv("EDITOR")) != ""
	if !envEditor && len(candidates) > 1 {
		idx, err := e.prompter.Select("Choose your editor", candidates)
		if err != nil {
			return "", errors.Errorf("choosing editor: %w", err)
		}
		choice = candidates[idx]
	}

	logger.Debug().Str("editor", choice).Str("path", path).Msg("opening editor")

	if choice == BuiltinName {
		return choice, e.builtin(path)
	}

	fields := strings.Fields(choice)
	args := append(fields[1:], path)
	if err := e.run(ctx, fields[0], args...); err != nil {
		return choice, errors.Errorf("running %s: %w", fields[0], err)
	}

	return choice, nil
}

// builtin shows the file numbered and replaces it with the lines typed until
// a lone "." or end of input. Typing nothing keeps the file as it was.
func (e *Editor) builtin(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading %s: %w", path, pathutil.NewIOError("reading", path, err))
	}

	fmt.Fprintln(e.out, "Line editor started. Enter a single \".\" to save and exit.")
	fmt.Fprintln(e.out, "Current content:")
	for i, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		if line == "" && i == 0 && len(content) == 0 {
			break
		}
		fmt.Fprintf(e.out, "%d: %s\n", i+1, line)
	}

	var lines []string
	for {
		line, err := e.lines.ReadLine("edit> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if line == "." {
			break
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		fmt.Fprintln(e.out, "No changes made.")
		return nil
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return errors.Errorf("saving %s: %w", path, pathutil.NewIOError("writing", path, err))
	}
	fmt.Fprintf(e.out, "%s File saved successfully\n", color.GreenString("✓"))

	return nil
}
