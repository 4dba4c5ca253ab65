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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/cmd/dbmg/opts"
	"github.com/walteh/dbmg/pkg/copier"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/progress"
	"github.com/walteh/dbmg/pkg/shell"
)

func NewDropCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		dest   string
		verify bool
		ignore []string
	)

	cmd := &cobra.Command{
		Use:   "drop PATHS...",
		Short: "Copy files and folders into the base or a destination",
		Long: `Drop copies each path, keeping its name, into the destination.
It will:
1. Count every file up front
2. Copy files and folders in order, preserving permissions
3. Skip paths that do not exist
4. Stop at the first failure`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			destRoot := opts.State.CurrentPath()
			if dest != "" {
				abs, err := filepath.Abs(pathutil.ExpandHome(pathutil.Unquote(dest)))
				if err != nil {
					return errors.Errorf("resolving destination: %w", err)
				}
				destRoot = abs
			}
			if _, err := pathutil.CanonicalizeKind(destRoot, pathutil.KindDir); err != nil {
				return errors.Errorf("checking destination: %w", err)
			}

			sources := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(pathutil.ExpandHome(pathutil.Unquote(arg)))
				if err != nil {
					return errors.Errorf("resolving %s: %w", arg, err)
				}
				sources = append(sources, abs)
			}

			engine, err := copier.New(copier.Options{
				Tracker:        progress.New(opts.Progress),
				IgnorePatterns: append(ignore, opts.IgnorePatterns()...),
				Verify:         verify,
			})
			if err != nil {
				return errors.Errorf("creating copier: %w", err)
			}

			zerolog.Ctx(ctx).Debug().Strs("sources", sources).Str("dest", destRoot).Msg("dropping")

			summary, err := engine.Drop(ctx, sources, destRoot)
			shell.ReportDrop(ctx, console, summary)
			if err != nil {
				return errors.Errorf("dropping: %w", err)
			}
			if len(summary.Results) == 0 {
				return errors.Errorf("nothing dropped: %w", pathutil.ErrPathNotFound)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "destination directory (default: base directory)")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-read every copy and compare checksums")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob patterns to skip, may repeat")

	return cmd
}
