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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/cmd/dbmg/opts"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/shell"
)

func NewShellCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive db-mg shell",
		Long: `Shell opens the db-mg prompt at the base directory.
It will:
1. Move the working directory to the base
2. Read one command per line
3. Keep going after failed commands until exit, quit or end of input`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunShell(cmd.Context(), opts)
		},
	}

	return cmd
}

// RunShell anchors the session at the base and runs the prompt loop
func RunShell(ctx context.Context, opts *opts.RootOpts) error {
	if err := opts.State.Sync(ctx, opts.State.BasePath()); err != nil {
		return errors.Errorf("entering base: %w", err)
	}

	sh, err := shell.New(shell.Options{
		State:          opts.State,
		Config:         opts.Config,
		ConfigPath:     opts.ConfigPath,
		Console:        log.FromContext(ctx),
		Lines:          opts.Lines,
		Prompter:       opts.Prompter,
		Editor:         opts.Editor,
		Progress:       opts.Progress,
		Version:        opts.Version,
	})
	if err != nil {
		return errors.Errorf("creating shell: %w", err)
	}

	return sh.Run(ctx)
}
