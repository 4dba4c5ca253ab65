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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// 🏗️ Initialize creates the base directory with its category folders and
// writes a fresh record to configPath. An existing record at configPath is
// replaced, but its subfolder registry and ignore patterns carry over.
func Initialize(ctx context.Context, basePath, configPath string, now time.Time) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	basePath = strings.TrimSpace(pathutil.Unquote(basePath))
	if basePath == "" {
		return nil, errors.Errorf("%w: base path is empty", ErrConfigMissing)
	}

	abs, err := filepath.Abs(pathutil.ExpandHome(basePath))
	if err != nil {
		return nil, errors.Errorf("resolving base path: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Errorf("creating base directory: %w", pathutil.NewIOError("mkdir", abs, err))
	}

	for _, dir := range DefaultDirectories {
		path := filepath.Join(abs, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.Errorf("creating %s: %w", dir, pathutil.NewIOError("mkdir", path, err))
		}
		logger.Debug().Str("path", path).Msg("category directory ready")
	}

	cfg := &Config{
		BasePath:       abs,
		Directories:    append([]string(nil), DefaultDirectories...),
		CreatedAt:      now.UTC().Format(time.RFC3339),
		Subdirectories: map[string][]string{},
	}

	if prev, err := Load(ctx, configPath); err == nil {
		cfg.Subdirectories = prev.Subdirectories
		cfg.IgnorePatterns = prev.IgnorePatterns
	}

	if err := cfg.Save(ctx, configPath); err != nil {
		return nil, errors.Errorf("writing config: %w", err)
	}

	logger.Info().Str("base", abs).Str("config", configPath).Msg("initialized")

	return cfg, nil
}
