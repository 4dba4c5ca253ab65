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

package navigation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// -- Errors --

var (
	ErrInvalidDirectory = errors.Base("invalid directory")
	ErrAlreadyAtBase    = errors.Base("already at base directory")
	ErrFileNotFound     = errors.Base("file not found")

	ErrOutsideBase = pathutil.ErrOutsideBase
	ErrNotAFile    = pathutil.ErrNotAFile
)

// -- Types --

// 🧭 State owns the shell's notion of where it is.
//
// base is fixed at construction. current is always canonical and, after every
// successful mutation, equal to the process working directory. All mutations
// go through commit, which changes the OS directory first and only then
// updates memory.
type State struct {
	base    string
	current string

	target    string
	hasTarget bool

	chdir func(string) error
}

// Option configures a State
type Option func(*State)

// WithChdir replaces os.Chdir as the working directory boundary
func WithChdir(fn func(string) error) Option {
	return func(s *State) {
		s.chdir = fn
	}
}

// 🏭 New creates a State rooted at base. The OS working directory is left
// untouched until the first mutation or Sync.
func New(ctx context.Context, base string, opts ...Option) (*State, error) {
	canonical, err := canonicalDir(pathutil.ExpandHome(base))
	if err != nil {
		return nil, errors.Errorf("resolving base directory: %w", err)
	}

	s := &State{
		base:    canonical,
		current: canonical,
		chdir:   os.Chdir,
	}
	for _, opt := range opts {
		opt(s)
	}

	zerolog.Ctx(ctx).Debug().Str("base", canonical).Msg("navigation state created")

	return s, nil
}

// NewFromWorkingDirectory creates a State rooted at the process working directory
func NewFromWorkingDirectory(ctx context.Context, opts ...Option) (*State, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Errorf("getting working directory: %w", pathutil.NewIOError("getwd", ".", err))
	}
	return New(ctx, wd, opts...)
}

// -- Accessors --

// BasePath returns the canonical base root
func (s *State) BasePath() string { return s.base }

// CurrentPath returns the canonical current directory
func (s *State) CurrentPath() string { return s.current }

// TargetDirectory returns the remembered copy destination, if any
func (s *State) TargetDirectory() (string, bool) {
	return s.target, s.hasTarget
}

// SetTargetDirectory remembers p, resolved against the current directory.
// The path is not required to exist yet.
func (s *State) SetTargetDirectory(p string) string {
	s.target = pathutil.Resolve(s.current, pathutil.ExpandHome(pathutil.Unquote(p)))
	s.hasTarget = true
	return s.target
}

// ClearTargetDirectory forgets the copy destination
func (s *State) ClearTargetDirectory() {
	s.target = ""
	s.hasTarget = false
}

// -- Directory State --

// 📍 SetCurrentPath moves to p, resolved against the current directory.
// Any existing directory is accepted.
func (s *State) SetCurrentPath(ctx context.Context, p string) error {
	canonical, err := canonicalDir(pathutil.Resolve(s.current, p))
	if err != nil {
		return err
	}
	return s.commit(ctx, canonical)
}

// 🔄 Sync forces the current directory to p and aligns the OS working
// directory with it. Relative paths resolve against the current directory.
func (s *State) Sync(ctx context.Context, p string) error {
	canonical, err := canonicalDir(pathutil.Resolve(s.current, pathutil.ExpandHome(p)))
	if err != nil {
		return errors.Errorf("syncing working directory: %w", err)
	}
	return s.commit(ctx, canonical)
}

// ResolvePath joins p onto the current directory without touching the filesystem
func (s *State) ResolvePath(p string) string {
	return pathutil.Resolve(s.current, p)
}

// 🔍 VerifyFileExists resolves p against the current directory and requires
// an existing regular file. The canonical path is returned.
func (s *State) VerifyFileExists(p string) (string, error) {
	name := pathutil.ExpandHome(pathutil.Unquote(p))
	if name == "" {
		return "", errors.Errorf("%w: empty file name", ErrFileNotFound)
	}

	canonical, err := pathutil.CanonicalizeKind(s.ResolvePath(name), pathutil.KindFile)
	switch {
	case err == nil:
		return canonical, nil
	case errors.Is(err, pathutil.ErrPathNotFound):
		return "", errors.Errorf("%w: %q in %s", ErrFileNotFound, name, s.current)
	case errors.Is(err, pathutil.ErrNotAFile):
		return "", errors.Errorf("%w: %q in %s", ErrNotAFile, name, s.current)
	default:
		return "", err
	}
}

// InSync reports whether the OS working directory still matches the
// current directory. Some other actor may have changed it.
func (s *State) InSync() (bool, error) {
	wd, err := os.Getwd()
	if err != nil {
		return false, pathutil.NewIOError("getwd", ".", err)
	}
	wd, err = filepath.EvalSymlinks(wd)
	if err != nil {
		return false, pathutil.NewIOError("canonicalizing", wd, err)
	}
	return wd == s.current, nil
}

// -- Commit Boundary --

// commit is the only place the OS working directory changes
func (s *State) commit(ctx context.Context, canonical string) error {
	if err := s.chdir(canonical); err != nil {
		return errors.Errorf("changing working directory: %w", pathutil.NewIOError("chdir", canonical, err))
	}

	zerolog.Ctx(ctx).Debug().Str("from", s.current).Str("to", canonical).Msg("working directory committed")
	s.current = canonical

	return nil
}

func canonicalDir(p string) (string, error) {
	canonical, err := pathutil.CanonicalizeKind(p, pathutil.KindDir)
	switch {
	case err == nil:
		return canonical, nil
	case errors.Is(err, pathutil.ErrPathNotFound), errors.Is(err, pathutil.ErrNotADirectory):
		return "", errors.Errorf("%w: %s", ErrInvalidDirectory, p)
	default:
		return "", err
	}
}
