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
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/cmd/dbmg/opts"
	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/log"
)

func NewInitCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Create the base directory and write the config",
		Long: `Init prepares PATH as the db-mg base.
It will:
1. Create PATH and the Internet Urls, Secrets and Emergency folders
2. Write the config record, keeping any known subfolders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, err := config.Initialize(ctx, args[0], opts.ConfigPath, time.Now())
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			console.Successf("Initialized db-mg at %s", cfg.BasePath)
			console.Infof("Config written to %s", opts.ConfigPath)

			return nil
		},
	}

	return cmd
}
