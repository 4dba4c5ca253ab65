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
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/copier"
)

// 🔗 StoreURL saves a URL file named name under Internet Urls, optionally
// inside a folder, with content typed by the user.
func (s *Store) StoreURL(ctx context.Context, name string) (*Stored, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	dir := s.URLDir()
	if err := s.ensureDirs(dir); err != nil {
		return nil, err
	}

	folder, err := s.chooseFolder(ctx, dir, "Do you want to save it inside a folder?")
	if err != nil {
		return nil, errors.Errorf("choosing folder: %w", err)
	}

	content, err := s.prompter.Input("Enter the URL content")
	if err != nil {
		return nil, errors.Errorf("reading URL: %w", err)
	}

	path := filepath.Join(folder, name)
	if err := createFile(path, []byte(content+"\n")); err != nil {
		return nil, err
	}

	s.console.Successf("URL file saved: %s", s.relToBase(path))

	if err := s.offerEdit(ctx, path); err != nil {
		return nil, err
	}

	return &Stored{Path: path, CategoryDir: dir}, nil
}

// 📤 CopyURLsToTarget mirrors Internet Urls into target/Internet Urls
func (s *Store) CopyURLsToTarget(ctx context.Context, target string) (*copier.Result, error) {
	dst := filepath.Join(target, filepath.Base(s.URLDir()))
	res, err := s.engine.CopyContents(ctx, s.URLDir(), dst)
	if err != nil {
		return res, errors.Errorf("copying URLs to target: %w", err)
	}
	return res, nil
}
