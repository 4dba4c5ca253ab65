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

package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// EmergencyKinds lists the emergency categories in prompt order. Each has
// a folder of the same name under Emergency.
var EmergencyKinds = []string{
	"Videos",
	"Audios",
	"Images",
	"Compressed",
	"Coding",
	"Apps",
	"Secrets",
	"Others",
}

// 🚨 StoreEmergency files name under the chosen emergency category. When
// source is set its contents are copied to the new path; otherwise an empty
// file is created.
func (s *Store) StoreEmergency(ctx context.Context, name, source string) (*Stored, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	dirs := make([]string, 0, len(EmergencyKinds))
	for _, kind := range EmergencyKinds {
		dirs = append(dirs, filepath.Join(s.EmergencyDir(), kind))
	}
	if err := s.ensureDirs(dirs...); err != nil {
		return nil, err
	}

	if source != "" {
		if _, err := pathutil.Canonicalize(source); err != nil {
			return nil, errors.Errorf("checking source: %w", err)
		}
	}

	idx, err := s.prompter.Select("What type of emergency file is this?", EmergencyKinds)
	if err != nil {
		return nil, errors.Errorf("choosing emergency type: %w", err)
	}
	categoryDir := dirs[idx]

	folder, err := s.chooseFolder(ctx, categoryDir, "Do you want to create a subfolder under this category?")
	if err != nil {
		return nil, errors.Errorf("choosing folder: %w", err)
	}

	path := filepath.Join(folder, name)

	if source == "" {
		if err := createFile(path, nil); err != nil {
			return nil, err
		}
	} else {
		if _, err := os.Lstat(path); err == nil {
			return nil, errors.Errorf("%w: %s", ErrAlreadyExists, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, pathutil.NewIOError("stat", path, err)
		}
		if _, err := s.engine.CopyContents(ctx, source, path); err != nil {
			return nil, errors.Errorf("copying source: %w", err)
		}
	}

	s.console.Successf("Emergency file saved in: %s", s.relToBase(path))

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if err := s.offerEdit(ctx, path); err != nil {
			return nil, err
		}
	}

	return &Stored{Path: path, CategoryDir: categoryDir}, nil
}
