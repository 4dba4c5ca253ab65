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

package copier

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/progress"
)

// -- Errors --

var (
	ErrDestinationInsideSource = errors.Base("destination is inside source directory")
	ErrSameFile                = errors.Base("source and destination are the same file")
	ErrVerifyFailed            = errors.Base("copy verification failed")
)

// -- Types --

// 🔧 Options configures an Engine
type Options struct {
	// Tracker receives file counts. A silent tracker is used when nil.
	Tracker *progress.Tracker
	// IgnorePatterns are doublestar globs matched against each entry's path
	// relative to the dropped directory and against its base name
	IgnorePatterns []string
	// Verify re-reads every copy and compares xxhash digests
	Verify bool
}

// 📦 Engine copies files and directory trees while reporting progress
type Engine struct {
	tracker *progress.Tracker
	ignore  []string
	verify  bool
}

// 📄 Result describes one completed source
type Result struct {
	Source      string
	Destination string
	Files       int
	Dirs        int
	Bytes       int64
	// Skipped lists entries left out: dangling links and non-regular files
	Skipped []string
}

// 📦 Summary describes a whole drop
type Summary struct {
	Results []*Result
	// Missing lists top-level sources that did not exist
	Missing   []string
	Processed int
	Total     int
}

// 🏭 New creates an Engine, rejecting malformed ignore patterns
func New(opts Options) (*Engine, error) {
	for _, pattern := range opts.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = progress.New(nil)
	}

	return &Engine{
		tracker: tracker,
		ignore:  opts.IgnorePatterns,
		verify:  opts.Verify,
	}, nil
}

// Tracker returns the tracker this engine reports to
func (e *Engine) Tracker() *progress.Tracker { return e.tracker }

// -- Entry Classification --

type entryKind int

const (
	kindSkip entryKind = iota
	kindDir
	kindFile
	kindLinkDir
)

// classify follows symlinks one level to decide how an entry is handled
func classify(ctx context.Context, path string, d fs.DirEntry) (entryKind, fs.FileInfo, error) {
	logger := zerolog.Ctx(ctx)

	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("skipping dangling symlink")
			return kindSkip, nil, nil
		}
		switch {
		case info.IsDir():
			return kindLinkDir, info, nil
		case info.Mode().IsRegular():
			return kindFile, info, nil
		default:
			logger.Warn().Str("path", path).Msg("skipping symlink to non-regular file")
			return kindSkip, nil, nil
		}
	}

	info, err := d.Info()
	if err != nil {
		return kindSkip, nil, pathutil.NewIOError("stat", path, err)
	}

	switch {
	case info.IsDir():
		return kindDir, info, nil
	case info.Mode().IsRegular():
		return kindFile, info, nil
	default:
		logger.Warn().Str("path", path).Str("mode", info.Mode().String()).Msg("skipping non-regular file")
		return kindSkip, info, nil
	}
}

// 🔍 shouldIgnore checks if an entry should be ignored
func (e *Engine) shouldIgnore(ctx context.Context, rel string) bool {
	if len(e.ignore) == 0 || rel == "." {
		return false
	}

	slashed := filepath.ToSlash(rel)
	name := filepath.Base(rel)
	for _, pattern := range e.ignore {
		if doublestar.MatchUnvalidated(pattern, slashed) || doublestar.MatchUnvalidated(pattern, name) {
			zerolog.Ctx(ctx).Debug().Str("path", slashed).Str("pattern", pattern).Msg("entry ignored by pattern")
			return true
		}
	}

	return false
}

// -- Pre-scan --

// 🔍 Scan walks src without reading contents and adds one to the tracker's
// total for every file a copy would write. It returns the count it added.
func (e *Engine) Scan(ctx context.Context, src string) (int, error) {
	root, _, err := resolveSource(src)
	if err != nil {
		return 0, err
	}

	count := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return pathutil.NewIOError("scanning", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return pathutil.NewIOError("scanning", path, err)
		}

		kind, _, err := classify(ctx, path, d)
		if err != nil {
			return err
		}

		if e.shouldIgnore(ctx, rel) {
			if kind == kindDir {
				return filepath.SkipDir
			}
			return nil
		}

		if kind == kindFile {
			e.tracker.IncrementTotal()
			count++
		}
		return nil
	})
	if err != nil {
		return count, errors.Errorf("scanning %s: %w", src, err)
	}

	zerolog.Ctx(ctx).Debug().Str("source", root).Int("files", count).Msg("scan complete")

	return count, nil
}

// resolveSource returns the canonical walk root of src plus the name the copy
// should carry, which is the name the user gave rather than a link target's.
func resolveSource(src string) (root, name string, err error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", "", pathutil.NewIOError("resolving", src, err)
	}
	root, err = pathutil.Canonicalize(abs)
	if err != nil {
		return "", "", err
	}
	return root, filepath.Base(abs), nil
}
