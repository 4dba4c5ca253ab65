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
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 🗂️ KnownSubdirectories returns the known subfolders of a category, sorted
func (cfg *Config) KnownSubdirectories(category string) []string {
	subs := append([]string(nil), cfg.Subdirectories[category]...)
	sort.Strings(subs)
	return subs
}

// 📌 RecordSubdirectory remembers a subfolder under a category and persists
// the record when it has a location. Duplicates are ignored.
func (cfg *Config) RecordSubdirectory(ctx context.Context, category, name string) error {
	if cfg.Subdirectories == nil {
		cfg.Subdirectories = map[string][]string{}
	}

	for _, existing := range cfg.Subdirectories[category] {
		if existing == name {
			return nil
		}
	}
	cfg.Subdirectories[category] = append(cfg.Subdirectories[category], name)

	if cfg.location == "" {
		return nil
	}
	if err := cfg.Save(ctx, cfg.location); err != nil {
		return errors.Errorf("recording subdirectory %s/%s: %w", category, name, err)
	}
	return nil
}
