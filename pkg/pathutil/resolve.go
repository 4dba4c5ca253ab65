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

// Package pathutil turns user supplied strings into absolute, canonical paths.
//
// Everything here resolves against an explicit base; nothing reads or
// changes the process working directory.
package pathutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind is the kind of filesystem entry a caller demands
type Kind int

const (
	KindAny Kind = iota
	KindFile
	KindDir
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "directory"
	default:
		return "any"
	}
}

// 🔗 Resolve joins p onto base unless p is already absolute. No filesystem
// access is made.
func Resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// 🔍 Canonicalize returns the absolute, symlink-free form of p. The path must exist.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", NewIOError("resolving", p, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// a regular file used as a directory component
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return "", errors.Errorf("%w: %s", ErrPathNotFound, abs)
		}
		return "", NewIOError("canonicalizing", abs, err)
	}

	return resolved, nil
}

// 🔍 CanonicalizeKind canonicalizes p and requires it to be of the given kind.
func CanonicalizeKind(p string, kind Kind) (string, error) {
	resolved, err := Canonicalize(p)
	if err != nil {
		return "", err
	}

	if kind == KindAny {
		return resolved, nil
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Errorf("%w: %s", ErrPathNotFound, resolved)
		}
		return "", NewIOError("stat", resolved, err)
	}

	switch {
	case kind == KindDir && !info.IsDir():
		return "", errors.Errorf("%w: %s", ErrNotADirectory, resolved)
	case kind == KindFile && !info.Mode().IsRegular():
		return "", errors.Errorf("%w: %s", ErrNotAFile, resolved)
	}

	return resolved, nil
}

// 🏠 ExpandHome expands a leading ~ to the current user's home directory.
// Paths such as ~other are returned untouched.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~`+string(filepath.Separator)) {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}

	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// 📦 IsWithin reports whether p is base itself or nested under it.
// Both paths are compared lexically after cleaning.
func IsWithin(base, p string) bool {
	base = filepath.Clean(base)
	p = filepath.Clean(p)

	if p == base {
		return true
	}

	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// 📐 Rel returns p relative to base, failing when p lies outside base.
// The base itself is reported as ".".
func Rel(base, p string) (string, error) {
	if !IsWithin(base, p) {
		return "", errors.Errorf("%w: %s", ErrOutsideBase, p)
	}

	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(p))
	if err != nil {
		return "", errors.Errorf("%w: %s", ErrOutsideBase, p)
	}

	return rel, nil
}
