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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// 📁 Entry is one child of the current directory
type Entry struct {
	Name      string
	Path      string
	IsDir     bool
	IsSymlink bool
	Size      int64
	ModTime   time.Time
}

// 🚶 ChangeDirectory moves within the base root and returns the new canonical
// path. ".." at the base fails with ErrAlreadyAtBase, and anything that lands
// outside the base fails with ErrOutsideBase.
func (s *State) ChangeDirectory(ctx context.Context, dir string) (string, error) {
	dir = pathutil.ExpandHome(pathutil.Unquote(dir))
	if dir == "" {
		return "", errors.Errorf("%w: empty directory name", ErrInvalidDirectory)
	}

	var candidate string
	if filepath.Clean(dir) == ".." {
		if s.current == s.base {
			return "", errors.Errorf("%w: %s", ErrAlreadyAtBase, s.base)
		}
		candidate = filepath.Dir(s.current)
	} else {
		candidate = pathutil.Resolve(s.current, dir)
	}

	canonical, err := canonicalDir(candidate)
	if err != nil {
		return "", err
	}

	if !pathutil.IsWithin(s.base, canonical) {
		zerolog.Ctx(ctx).Debug().Str("path", canonical).Str("base", s.base).Msg("refusing to leave base")
		return "", errors.Errorf("%w: %s", ErrOutsideBase, canonical)
	}

	if err := s.commit(ctx, canonical); err != nil {
		return "", err
	}

	return canonical, nil
}

// 📋 ListDirectories returns the children of the current directory,
// directories first, then by name. Symlinks are classified by their target.
func (s *State) ListDirectories(ctx context.Context) ([]Entry, error) {
	dirents, err := os.ReadDir(s.current)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", s.current, pathutil.NewIOError("reading", s.current, err))
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("listing %s: %w", s.current, err)
		}

		full := filepath.Join(s.current, d.Name())
		entry := Entry{
			Name:      d.Name(),
			Path:      full,
			IsSymlink: d.Type()&fs.ModeSymlink != 0,
		}

		var info fs.FileInfo
		if entry.IsSymlink {
			info, err = os.Stat(full)
			if err != nil {
				// dangling links are listed as plain files
				zerolog.Ctx(ctx).Debug().Err(err).Str("path", full).Msg("unresolvable symlink")
				info, err = d.Info()
			}
		} else {
			info, err = d.Info()
		}
		if err != nil {
			return nil, errors.Errorf("listing %s: %w", s.current, pathutil.NewIOError("stat", full, err))
		}

		entry.IsDir = info.IsDir()
		entry.ModTime = info.ModTime()
		if !entry.IsDir {
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// IsSubdirectory reports whether p, resolved against the current directory,
// lies within the base root. Existing paths are compared in canonical form.
func (s *State) IsSubdirectory(p string) bool {
	return pathutil.IsWithin(s.base, s.canonicalOrClean(p))
}

// RelativePath returns p relative to the base root
func (s *State) RelativePath(p string) (string, error) {
	return pathutil.Rel(s.base, s.canonicalOrClean(p))
}

// DisplayPath renders the current directory relative to the base, rooted at
// "/". It falls back to the absolute path when the two have diverged.
func (s *State) DisplayPath() string {
	rel, err := pathutil.Rel(s.base, s.current)
	if err != nil {
		return s.current
	}
	if rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

func (s *State) canonicalOrClean(p string) string {
	resolved := s.ResolvePath(p)
	if canonical, err := pathutil.Canonicalize(resolved); err == nil {
		return canonical
	}
	return resolved
}
