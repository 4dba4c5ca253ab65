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

// Package store files new entries into the category folders under the base
// root: URL files, secrets and emergency files.
package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/copier"
	"github.com/walteh/dbmg/pkg/editor"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/prompt"
)

var (
	ErrAlreadyExists = errors.Base("file already exists")
	ErrInvalidName   = errors.Base("invalid name")
)

const newFolderChoice = "+ New folder"

// 🔧 Options configures a Store
type Options struct {
	Config   *config.Config
	Prompter prompt.Prompter
	Engine   *copier.Engine
	Console  *log.Logger
	// Editor is offered after a file is created. Nil skips the offer.
	Editor *editor.Editor
}

// 🗄️ Store files entries into the configured base root
type Store struct {
	cfg      *config.Config
	prompter prompt.Prompter
	engine   *copier.Engine
	console  *log.Logger
	editor   *editor.Editor
}

// 📄 Stored describes a newly filed entry
type Stored struct {
	// Path is the created file or copied tree
	Path string
	// CategoryDir is the category folder the entry went into
	CategoryDir string
}

// 🏭 New creates a Store
func New(opts Options) (*Store, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Prompter == nil {
		return nil, errors.Errorf("prompter is required")
	}
	if opts.Console == nil {
		return nil, errors.Errorf("console is required")
	}
	engine := opts.Engine
	if engine == nil {
		var err error
		if engine, err = copier.New(copier.Options{}); err != nil {
			return nil, err
		}
	}
	return &Store{
		cfg:      opts.Config,
		prompter: opts.Prompter,
		engine:   engine,
		console:  opts.Console,
		editor:   opts.Editor,
	}, nil
}

// 📂 Category folders
func (s *Store) URLDir() string       { return filepath.Join(s.cfg.BasePath, config.DirInternetUrls) }
func (s *Store) SecretsDir() string   { return filepath.Join(s.cfg.BasePath, config.DirSecrets) }
func (s *Store) EmergencyDir() string { return filepath.Join(s.cfg.BasePath, config.DirEmergency) }

// ValidateName rejects names that are empty, dot entries, or contain a path separator
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return errors.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, filepath.Separator):
		return errors.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

// chooseFolder asks whether to nest under a subfolder of dir and returns the
// directory the entry goes into. Known subfolders are offered first.
func (s *Store) chooseFolder(ctx context.Context, dir, question string) (string, error) {
	use, err := s.prompter.Confirm(question)
	if err != nil {
		return "", err
	}
	if !use {
		return dir, nil
	}

	category, err := filepath.Rel(s.cfg.BasePath, dir)
	if err != nil {
		return "", errors.Errorf("locating category: %w", err)
	}
	category = filepath.ToSlash(category)

	var name string
	if known := s.cfg.KnownSubdirectories(category); len(known) > 0 {
		options := append(known, newFolderChoice)
		idx, err := s.prompter.Select("Choose a folder", options)
		if err != nil {
			return "", err
		}
		if options[idx] != newFolderChoice {
			name = options[idx]
		}
	}

	if name == "" {
		if name, err = s.prompter.Input("Enter folder name"); err != nil {
			return "", err
		}
	}

	name = pathutil.Unquote(name)
	if err := ValidateName(name); err != nil {
		return "", err
	}

	folder := filepath.Join(dir, name)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", errors.Errorf("creating folder: %w", pathutil.NewIOError("mkdir", folder, err))
	}

	if err := s.cfg.RecordSubdirectory(ctx, category, name); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("could not record subfolder")
	}

	return folder, nil
}

// createFile writes content to a path that must not exist yet
func createFile(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errors.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return errors.Errorf("creating file: %w", pathutil.NewIOError("creating", path, err))
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return errors.Errorf("writing file: %w", pathutil.NewIOError("writing", path, err))
	}
	if err := f.Close(); err != nil {
		return errors.Errorf("writing file: %w", pathutil.NewIOError("writing", path, err))
	}
	return nil
}

// offerEdit asks to open path in an editor. Editor failures are reported but
// do not undo the store.
func (s *Store) offerEdit(ctx context.Context, path string) error {
	if s.editor == nil {
		return nil
	}

	ok, err := s.prompter.Confirm("Do you want to edit this file now?")
	if err != nil || !ok {
		return err
	}

	used, err := s.editor.Edit(ctx, path)
	if err != nil {
		s.console.Errorf("Error editing file: %v", err)
		return nil
	}
	s.console.Successf("File edited with %s", used)
	return nil
}

func (s *Store) ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Errorf("creating %s: %w", dir, pathutil.NewIOError("mkdir", dir, err))
		}
	}
	return nil
}

func (s *Store) relToBase(path string) string {
	if rel, err := filepath.Rel(s.cfg.BasePath, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
