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
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/walteh/dbmg/pkg/config"
)

// 🏷️ VersionInfo describes the binary and the setup it is running against
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Revision  string `json:"revision"`
	Time      string `json:"time"`
	Modified  bool   `json:"modified"`

	ConfigPath string `json:"config_path"`
	// BasePath is empty until init has written a record
	BasePath string `json:"base_path"`
}

// GetVersionInfo reads the build metadata stamped by the go toolchain
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   "dev",
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.Time = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}

// WithSetup records the config location and, when loaded, the base it names
func (v *VersionInfo) WithSetup(configPath string, cfg *config.Config) *VersionInfo {
	v.ConfigPath = configPath
	if cfg != nil {
		v.BasePath = cfg.BasePath
	}
	return v
}

// 📜 String renders the report shown by `dbmg version` and the shell
func (v *VersionInfo) String() string {
	revision := orUnknown(v.Revision)
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if v.Modified {
		revision += " (modified)"
	}

	base := v.BasePath
	if base == "" {
		base = "not initialized, run 'init'"
	}

	return fmt.Sprintf(`🚀 dbmg version info:
Version:   %s
Revision:  %s
Built:     %s
Go:        %s
Platform:  %s
Config:    %s
Base:      %s`, v.Version, revision, orUnknown(v.Time), v.GoVersion, v.Platform, orUnknown(v.ConfigPath), base)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// setupInfo loads the record at the flagged or default path without
// failing: a missing or unreadable record just leaves the base empty
func setupInfo(ctx context.Context, flags *rootFlags) *VersionInfo {
	info := GetVersionInfo()

	path := flags.configFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return info
		}
		path = p
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		cfg = nil
	}
	return info.WithSetup(path, cfg)
}

func newVersionCmd(out io.Writer, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and setup info",
		Args:  cobra.NoArgs,
		// reports on the config, so it must not require one
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(out, setupInfo(cmd.Context(), flags))
			return err
		},
	}
}
