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

package opts

import (
	"io"

	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/editor"
	"github.com/walteh/dbmg/pkg/navigation"
	"github.com/walteh/dbmg/pkg/prompt"
)

// RootOpts is built once flags are parsed and shared by every command
type RootOpts struct {
	ConfigPath string
	// Config is nil when no record exists yet
	Config *config.Config
	State  *navigation.State

	Lines    *prompt.LineReader
	Prompter prompt.Prompter
	Editor   *editor.Editor

	// Progress receives copy bars; nil when quiet
	Progress io.Writer
	Version  string
}

// IgnorePatterns returns the configured ignore globs
func (o *RootOpts) IgnorePatterns() []string {
	if o.Config == nil {
		return nil
	}
	return o.Config.IgnorePatterns
}
