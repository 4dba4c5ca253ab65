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
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/progress"
)

// 📥 Copy scans src and then copies it into destRoot, keeping its name.
// A directory lands at destRoot/<dirname> with its structure intact.
func (e *Engine) Copy(ctx context.Context, src, destRoot string) (*Result, error) {
	if _, err := e.Scan(ctx, src); err != nil {
		return nil, err
	}
	return e.copyInto(ctx, src, destRoot)
}

// 📥 CopyContents copies src onto dst. A file is written to the path dst and
// a directory has its contents merged into dst. The tracker total is not
// touched; callers that want a percentage call Scan first.
func (e *Engine) CopyContents(ctx context.Context, src, dst string) (*Result, error) {
	root, _, err := resolveSource(src)
	if err != nil {
		return nil, errors.Errorf("copying %s: %w", src, err)
	}

	dst, err = filepath.Abs(dst)
	if err != nil {
		return nil, pathutil.NewIOError("resolving", dst, err)
	}

	return e.copyResolved(ctx, root, dst)
}

// 📦 Drop pre-scans every source and then copies each into destRoot in order.
// Missing sources are skipped with a warning. The first failure stops the
// drop and is returned with everything completed so far.
func (e *Engine) Drop(ctx context.Context, sources []string, destRoot string) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := &Summary{}

	present := make([]string, 0, len(sources))
	for _, src := range sources {
		if _, err := os.Lstat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn().Str("path", src).Msg("skipping missing source")
				summary.Missing = append(summary.Missing, src)
				continue
			}
			return summary, errors.Errorf("checking %s: %w", src, pathutil.NewIOError("stat", src, err))
		}
		present = append(present, src)
	}

	for _, src := range present {
		if _, err := e.Scan(ctx, src); err != nil {
			if errors.Is(err, pathutil.ErrPathNotFound) {
				logger.Warn().Str("path", src).Msg("skipping unresolvable source")
				summary.Missing = append(summary.Missing, src)
				continue
			}
			summary.Processed, summary.Total = e.tracker.Snapshot()
			return summary, err
		}
	}

	for _, src := range present {
		if contains(summary.Missing, src) {
			continue
		}
		res, err := e.copyInto(ctx, src, destRoot)
		if err != nil {
			summary.Processed, summary.Total = e.tracker.Snapshot()
			return summary, err
		}
		summary.Results = append(summary.Results, res)
	}

	summary.Processed, summary.Total = e.tracker.Snapshot()
	logger.Debug().Int("processed", summary.Processed).Int("total", summary.Total).Msg("drop complete")

	return summary, nil
}

// copyInto copies src to destRoot/<name of src> without scanning
func (e *Engine) copyInto(ctx context.Context, src, destRoot string) (*Result, error) {
	root, name, err := resolveSource(src)
	if err != nil {
		if errors.Is(err, pathutil.ErrPathNotFound) {
			// scanned earlier, so it vanished in between
			err = pathutil.NewIOError("opening", src, fs.ErrNotExist)
		}
		return nil, errors.Errorf("copying %s: %w", src, err)
	}

	destRoot, err = filepath.Abs(destRoot)
	if err != nil {
		return nil, pathutil.NewIOError("resolving", destRoot, err)
	}

	return e.copyResolved(ctx, root, filepath.Join(destRoot, name))
}

func (e *Engine) copyResolved(ctx context.Context, root, dst string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("copying %s: %w", root, pathutil.NewIOError("stat", root, err))
	}

	res := &Result{Source: root, Destination: dst}

	if info.IsDir() {
		if pathutil.IsWithin(root, canonicalizeLoose(dst)) {
			return nil, errors.Errorf("%w: %s is inside %s", ErrDestinationInsideSource, dst, root)
		}
		if err := e.copyTree(ctx, root, dst, res); err != nil {
			return res, errors.Errorf("copying %s: %w", root, err)
		}
		return res, nil
	}

	if !info.Mode().IsRegular() {
		zerolog.Ctx(ctx).Warn().Str("path", root).Msg("skipping non-regular file")
		res.Skipped = append(res.Skipped, root)
		return res, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return res, errors.Errorf("creating parent directories: %w", pathutil.NewIOError("mkdir", filepath.Dir(dst), err))
	}
	if err := e.copyTracked(ctx, root, dst, info, res); err != nil {
		return res, errors.Errorf("copying %s: %w", root, err)
	}

	return res, nil
}

type dirMode struct {
	path string
	perm fs.FileMode
}

// 🌳 copyTree mirrors the directory at root into dst. Directories are
// created writable and get their source modes once the walk is done, so a
// read-only source directory still receives its files.
func (e *Engine) copyTree(ctx context.Context, root, dst string, res *Result) error {
	var modes []dirMode

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return pathutil.NewIOError("reading", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return pathutil.NewIOError("reading", path, err)
		}

		kind, info, err := classify(ctx, path, d)
		if err != nil {
			return err
		}

		if e.shouldIgnore(ctx, rel) {
			if kind == kindDir {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)

		switch kind {
		case kindDir, kindLinkDir:
			// linked directories are created empty and never descended
			_, statErr := os.Stat(target)
			if err := os.MkdirAll(target, 0o755); err != nil {
				return pathutil.NewIOError("mkdir", target, err)
			}
			// directories merged into keep their own mode
			if errors.Is(statErr, fs.ErrNotExist) {
				modes = append(modes, dirMode{path: target, perm: info.Mode().Perm()})
			}
			res.Dirs++
		case kindFile:
			if err := e.copyTracked(ctx, path, target, info, res); err != nil {
				return err
			}
		default:
			res.Skipped = append(res.Skipped, path)
		}

		return nil
	})

	// children first, parents last
	for i := len(modes) - 1; i >= 0; i-- {
		if chmodErr := os.Chmod(modes[i].path, modes[i].perm); chmodErr != nil && err == nil {
			err = pathutil.NewIOError("chmod", modes[i].path, chmodErr)
		}
	}

	return err
}

// copyTracked copies one file and reports it to the tracker
func (e *Engine) copyTracked(ctx context.Context, src, dst string, info fs.FileInfo, res *Result) error {
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return errors.Errorf("%w: %s", ErrSameFile, dst)
	}

	bar := e.tracker.NewBar(filepath.Base(src))

	n, err := e.copyFile(src, dst, info.Mode().Perm())
	if err != nil {
		bar.Fail("")
		return err
	}

	e.tracker.IncrementProcessed()
	bar.Finish(progress.FormatCopied(filepath.Base(src), n))

	res.Files++
	res.Bytes += n

	zerolog.Ctx(ctx).Debug().Str("source", src).Str("destination", dst).Int64("bytes", n).Msg("file copied")

	return nil
}

// 📄 copyFile copies bytes and permissions, optionally verifying the result
func (e *Engine) copyFile(src, dst string, perm fs.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, pathutil.NewIOError("opening", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, pathutil.NewIOError("creating", dst, err)
	}

	digest := xxhash.New()
	n, err := io.Copy(io.MultiWriter(out, digest), in)
	if err != nil {
		out.Close()
		return n, pathutil.NewIOError("copying", src, err)
	}
	if err := out.Close(); err != nil {
		return n, pathutil.NewIOError("writing", dst, err)
	}

	// umask may have narrowed the mode on create
	if err := os.Chmod(dst, perm); err != nil {
		return n, pathutil.NewIOError("chmod", dst, err)
	}

	if e.verify {
		got, err := hashFile(dst)
		if err != nil {
			return n, err
		}
		if got != digest.Sum64() {
			return n, errors.Errorf("%w: %s", ErrVerifyFailed, dst)
		}
	}

	return n, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, pathutil.NewIOError("opening", path, err)
	}
	defer f.Close()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, pathutil.NewIOError("reading", path, err)
	}
	return digest.Sum64(), nil
}

// canonicalizeLoose resolves symlinks in the longest existing prefix of p
// and re-attaches the rest, so paths that do not exist yet still compare
// correctly against canonical sources.
func canonicalizeLoose(p string) string {
	p = filepath.Clean(p)
	rest := ""
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
