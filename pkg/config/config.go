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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/dbmg/pkg/pathutil"
)

var (
	ErrConfigMissing  = errors.Base("config missing, run init first")
	ErrReadOnlyFormat = errors.Base("config format cannot be written")
)

// 📂 Category directories created by init
const (
	DirInternetUrls = "Internet Urls"
	DirSecrets      = "Secrets"
	DirEmergency    = "Emergency"
)

// DefaultDirectories lists the categories in creation order
var DefaultDirectories = []string{DirInternetUrls, DirSecrets, DirEmergency}

// 📚 Config represents the persisted record
type Config struct {
	BasePath       string              `json:"base_path" yaml:"base_path" mapstructure:"base_path"`
	Directories    []string            `json:"directories" yaml:"directories" mapstructure:"directories"`
	CreatedAt      string              `json:"created_at" yaml:"created_at" mapstructure:"created_at"`
	Subdirectories map[string][]string `json:"subdirectories,omitempty" yaml:"subdirectories,omitempty" mapstructure:"subdirectories"`
	IgnorePatterns []string            `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" mapstructure:"ignore_patterns"`

	location string
}

// 🗺️ DefaultPath returns $XDG_CONFIG_HOME/db-mg/db.json or its platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "db-mg", "db.json"), nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return nil, errors.Errorf("reading config file: %w", pathutil.NewIOError("reading", path, err))
	}

	cfg, err := GetParser(path).Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.location = path

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.BasePath == "" {
		return errors.Errorf("%w: base_path is empty", ErrConfigMissing)
	}

	abs, err := filepath.Abs(pathutil.ExpandHome(cfg.BasePath))
	if err != nil {
		return errors.Errorf("resolving base_path: %w", err)
	}
	cfg.BasePath = abs

	if cfg.Subdirectories == nil {
		cfg.Subdirectories = map[string][]string{}
	}

	return nil
}

// 💾 Save writes the record in the format named by the path's extension,
// replacing the file atomically
func (cfg *Config) Save(ctx context.Context, path string) error {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saving configuration")

	content, err := cfg.encode(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating config dir: %w", pathutil.NewIOError("mkdir", filepath.Dir(path), err))
	}

	if err := writeFileAtomic(path, append(content, '\n')); err != nil {
		return err
	}

	cfg.location = path

	return nil
}

// encode picks the format from the extension. HCL records are read-only.
func (cfg *Config) encode(path string) ([]byte, error) {
	switch {
	case hasExt(path, ".hcl"):
		return nil, errors.Errorf("%w: %s", ErrReadOnlyFormat, path)
	case hasExt(path, ".yaml", ".yml"):
		content, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, errors.Errorf("encoding config: %w", err)
		}
		return bytes.TrimRight(content, "\n"), nil
	default:
		content, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Errorf("encoding config: %w", err)
		}
		return content, nil
	}
}

// Location returns the path the record was loaded from or saved to
func (cfg *Config) Location() string { return cfg.location }

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%d categories, created %s)", cfg.BasePath, len(cfg.Directories), cfg.CreatedAt)
}

func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0o600); err != nil {
		return errors.Errorf("writing temp file: %w", pathutil.NewIOError("writing", tempPath, err))
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", pathutil.NewIOError("renaming", tempPath, err))
	}

	return nil
}
