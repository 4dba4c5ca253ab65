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

/*
Package shell runs the interactive db-mg prompt.

🎯 Purpose:
  - Read one command per line and dispatch it
  - Own the single navigation state for the session
  - Report every failure and keep going

🔄 Flow:
 1. Read a line after printing "db-mg> "
 2. Split off the command word
 3. Run the handler with the rest of the line
 4. Print the error, if any, and loop
*/
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/editor"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/navigation"
	"github.com/walteh/dbmg/pkg/prompt"
)

// Prompt is printed before every command line
const Prompt = "db-mg> "

// errExit ends the loop without reporting anything
var errExit = errors.Base("exit requested")

// 🔧 Options configures a Shell
type Options struct {
	State *navigation.State
	// Config is nil until init has run
	Config *config.Config
	// ConfigPath is where init writes the record
	ConfigPath string

	Console  *log.Logger
	Lines    *prompt.LineReader
	Prompter prompt.Prompter
	Editor   *editor.Editor

	// Progress receives per-file bars during drops. Nil keeps drops quiet.
	Progress       io.Writer
	IgnorePatterns []string
	Verify         bool

	// Version is printed by the version command
	Version string
	// Chdir is handed to states created by init
	Chdir func(string) error
	Now   func() time.Time
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, rest string) error
}

// 🐚 Shell is one interactive session
type Shell struct {
	state      *navigation.State
	cfg        *config.Config
	configPath string

	console  *log.Logger
	lines    *prompt.LineReader
	prompter prompt.Prompter
	editor   *editor.Editor

	progress io.Writer
	ignore   []string
	verify   bool

	version string
	chdir   func(string) error
	now     func() time.Time

	commands map[string]command
}

// 🏭 New creates a Shell
func New(opts Options) (*Shell, error) {
	if opts.State == nil {
		return nil, errors.Errorf("state is required")
	}
	if opts.Console == nil || opts.Lines == nil {
		return nil, errors.Errorf("console and line reader are required")
	}

	s := &Shell{
		state:      opts.State,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		console:    opts.Console,
		lines:      opts.Lines,
		prompter:   opts.Prompter,
		editor:     opts.Editor,
		progress:   opts.Progress,
		ignore:     opts.IgnorePatterns,
		verify:     opts.Verify,
		version:    opts.Version,
		chdir:      opts.Chdir,
		now:        opts.Now,
	}

	if s.prompter == nil {
		s.prompter = prompt.NewLinePrompter(s.lines)
	}
	if s.chdir == nil {
		s.chdir = os.Chdir
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.version == "" {
		s.version = "dev"
	}

	s.commands = map[string]command{
		"help":    {usage: "help", summary: "Show this help", run: s.help},
		"version": {usage: "version", summary: "Show version info", run: s.showVersion},
		"clear":   {usage: "clear", summary: "Clear the screen", run: s.clear},
		"init":    {usage: "init [PATH]", summary: "Create the base folders and config", run: s.initBase},
		"ls":      {usage: "ls", summary: "List the current directory", run: s.list},
		"pwd":     {usage: "pwd", summary: "Show the current directory", run: s.pwd},
		"cd":      {usage: "cd [DIR]", summary: "Change directory inside the base (no DIR returns to base)", run: s.cd},
		"edit":    {usage: "edit FILE", summary: "Open a file in an editor", run: s.edit},
		"drop":    {usage: "drop [PATHS...]", summary: "Copy files or folders into the current directory", run: s.drop},
		"target":  {usage: "target [PATH|--clear]", summary: "Show, set or clear the target directory", run: s.target},
		"store":   {usage: "store url|secret|critical NAME [SOURCE]", summary: "File a new entry into a category", run: s.storeEntry},
		"exit":    {usage: "exit", summary: "Leave the shell", run: s.exit},
		"quit":    {usage: "quit", summary: "Leave the shell", run: s.exit},
	}

	return s, nil
}

// State returns the session's navigation state
func (s *Shell) State() *navigation.State { return s.state }

// Config returns the loaded record, or nil before init
func (s *Shell) Config() *config.Config { return s.cfg }

// 🔄 Run reads and executes commands until exit, quit or end of input
func (s *Shell) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	s.console.Header("Type 'help' to list commands")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.lines.ReadLine(color.New(color.FgGreen, color.Bold).Sprint(Prompt))
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.console.LogNewline()
				return nil
			}
			return errors.Errorf("reading command: %w", err)
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			logger.Debug().Err(err).Str("line", line).Msg("command failed")
			s.console.Error(err.Error())
		}
	}
}

// ⚡ Execute runs a single command line
func (s *Shell) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	name, rest, _ := strings.Cut(line, " ")
	cmd, ok := s.commands[strings.ToLower(name)]
	if !ok {
		return errors.Errorf("unknown command %q, type 'help' for the list", name)
	}

	ctx = zerolog.Ctx(ctx).With().Str("command", name).Logger().WithContext(ctx)
	return cmd.run(ctx, strings.TrimSpace(rest))
}

func (s *Shell) help(ctx context.Context, _ string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	s.console.Plain("Commands:")
	for _, name := range names {
		cmd := s.commands[name]
		s.console.Plain(fmt.Sprintf("  %-42s %s", cmd.usage, color.New(color.Faint).Sprint(cmd.summary)))
	}
	return nil
}

func (s *Shell) showVersion(ctx context.Context, _ string) error {
	s.console.Plain(s.version)
	return nil
}

func (s *Shell) clear(ctx context.Context, _ string) error {
	fmt.Fprint(s.console.Console(), "\033[H\033[2J")
	return nil
}

func (s *Shell) exit(ctx context.Context, _ string) error {
	s.console.Plain("Goodbye!")
	return errExit
}
