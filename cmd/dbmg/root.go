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

package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/cmd/dbmg/commands"
	"github.com/walteh/dbmg/cmd/dbmg/opts"
	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/editor"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/navigation"
	"github.com/walteh/dbmg/pkg/prompt"
)

type rootFlags struct {
	configFile string
	debug      bool
	quiet      bool
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "dbmg",
		Short: "Navigate, file and drop content into a db-mg base directory",
		Long: `dbmg keeps a base directory of Internet Urls, Secrets and Emergency files.
With no command it starts the interactive shell, where you can move around
the base, store new entries and drop files or folders into place.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := setupLogging(flags)
			console := log.New(out, level)
			ctx := log.NewContext(cmd.Context(), console)

			built, err := newRootOpts(ctx, flags, console, in, out)
			if err != nil {
				return err
			}
			*ro = *built
			ro.Version = GetVersionInfo().WithSetup(built.ConfigPath, built.Config).String()

			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunShell(cmd.Context(), ro)
		},
	}

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewShellCmd(ro),
		commands.NewDropCmd(ro),
		commands.NewLsCmd(ro),
		commands.NewInitCmd(ro),
		newVersionCmd(out, flags),
	)

	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	return rootCmd
}

func newRootOpts(ctx context.Context, flags *rootFlags, console *log.Logger, in io.Reader, out io.Writer) (*opts.RootOpts, error) {
	configPath := flags.configFile
	if configPath == "" {
		var err error
		if configPath, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(ctx, configPath)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrConfigMissing):
		console.Warning("No config found, run 'init' first. Using the current directory.")
		cfg = nil
	default:
		return nil, errors.Errorf("loading config: %w", err)
	}

	state, err := openState(ctx, cfg, console)
	if err != nil {
		return nil, err
	}

	lines := prompt.NewLineReader(in, out)
	prompter := prompt.Auto(in, lines)

	var progressOut io.Writer
	if !flags.quiet {
		progressOut = out
	}

	return &opts.RootOpts{
		ConfigPath: configPath,
		Config:     cfg,
		State:      state,
		Lines:      lines,
		Prompter:   prompter,
		Editor:     editor.New(prompter, lines, out),
		Progress:   progressOut,
	}, nil
}

// openState anchors at the configured base, falling back to the working
// directory when there is no usable record
func openState(ctx context.Context, cfg *config.Config, console *log.Logger) (*navigation.State, error) {
	if cfg != nil {
		state, err := navigation.New(ctx, cfg.BasePath)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, navigation.ErrInvalidDirectory) {
			return nil, errors.Errorf("opening base: %w", err)
		}
		console.Warningf("Base path %s is not a usable directory. Using the current directory.", cfg.BasePath)
	}

	state, err := navigation.NewFromWorkingDirectory(ctx)
	if err != nil {
		return nil, errors.Errorf("determining base directory: %w", err)
	}
	return state, nil
}

func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: user config dir/db-mg/db.json)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "only log errors and hide progress bars")
}

// setupLogging sets the global zerolog level and default context logger and
// returns the level the console should mirror at
func setupLogging(flags *rootFlags) zerolog.Level {
	level := zerolog.WarnLevel
	switch {
	case flags.debug:
		level = zerolog.DebugLevel
	case flags.quiet:
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	return level
}
