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
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/cmd/dbmg/opts"
	"github.com/walteh/dbmg/pkg/log"
)

func NewLsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [DIR]",
		Short: "List a directory inside the base",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(args) == 1 {
				if _, err := opts.State.ChangeDirectory(ctx, args[0]); err != nil {
					return errors.Errorf("opening %s: %w", args[0], err)
				}
			}

			entries, err := opts.State.ListDirectories(ctx)
			if err != nil {
				return errors.Errorf("listing: %w", err)
			}

			out := make([]log.Entry, 0, len(entries))
			for _, e := range entries {
				out = append(out, log.Entry{Name: e.Name, IsDir: e.IsDir, IsSymlink: e.IsSymlink, Size: e.Size})
			}
			log.FromContext(ctx).LogListing(ctx, opts.State.DisplayPath(), out)

			return nil
		},
	}

	return cmd
}
