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
)

// 🔐 SecretKind is the category a secret is filed under
type SecretKind int

const (
	SecretEmail SecretKind = iota
	SecretSocialMedia
	SecretPhone
	SecretOther
)

// SecretKinds lists the selectable kinds in prompt order
var SecretKinds = []string{"Email", "Social Media", "Phone Number", "Other"}

// secretDirs maps kinds to folders under Secrets. Other files go to Secrets itself.
var secretDirs = map[SecretKind]string{
	SecretEmail:       "Emails",
	SecretSocialMedia: "Social Media IDs",
	SecretPhone:       "Phone Numbers",
}

// String returns the label shown when choosing a kind
func (k SecretKind) String() string {
	if int(k) < len(SecretKinds) {
		return SecretKinds[k]
	}
	return "Unknown"
}

func (s *Store) secretCategoryDir(kind SecretKind) string {
	if sub, ok := secretDirs[kind]; ok {
		return filepath.Join(s.SecretsDir(), sub)
	}
	return s.SecretsDir()
}

// 🔐 StoreSecret creates an empty secret file named name in the chosen
// category, optionally inside a subfolder, then offers to edit it.
func (s *Store) StoreSecret(ctx context.Context, name string) (*Stored, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if err := s.ensureDirs(
		s.secretCategoryDir(SecretEmail),
		s.secretCategoryDir(SecretSocialMedia),
		s.secretCategoryDir(SecretPhone),
	); err != nil {
		return nil, err
	}

	idx, err := s.prompter.Select("What type of secret is this?", SecretKinds)
	if err != nil {
		return nil, errors.Errorf("choosing secret type: %w", err)
	}
	kind := SecretKind(idx)
	categoryDir := s.secretCategoryDir(kind)

	question := "Do you want to create a subfolder under this category?"
	if kind == SecretOther {
		question = "Do you want to save it inside a custom folder?"
	}

	folder, err := s.chooseFolder(ctx, categoryDir, question)
	if err != nil {
		return nil, errors.Errorf("choosing folder: %w", err)
	}

	path := filepath.Join(folder, name)
	if err := createFile(path, nil); err != nil {
		return nil, err
	}

	s.console.Successf("Secret file saved in: %s", s.relToBase(path))

	if err := s.offerEdit(ctx, path); err != nil {
		return nil, err
	}

	return &Stored{Path: path, CategoryDir: categoryDir}, nil
}
