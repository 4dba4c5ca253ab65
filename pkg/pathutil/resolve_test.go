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

package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err, "resolving temp dir should succeed")
	return dir
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/base/a/b", Resolve("/base", "a/b"), "relative path should join")
	assert.Equal(t, "/etc", Resolve("/base", "/etc/"), "absolute path should be cleaned")
	assert.Equal(t, "/a", Resolve("/base", "../a"), "dot dot should be cleaned lexically")
}

func TestCanonicalize(t *testing.T) {
	dir := canonicalTempDir(t)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(sub, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(sub, link))

	t.Run("resolves_symlink_and_dots", func(t *testing.T) {
		got, err := Canonicalize(filepath.Join(link, ".", "..", "sub"))
		require.NoError(t, err)
		assert.Equal(t, sub, got, "canonical path should be symlink free")
	})

	t.Run("missing_path", func(t *testing.T) {
		_, err := Canonicalize(filepath.Join(dir, "nope"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPathNotFound), "error should be path not found")
	})

	t.Run("path_through_file", func(t *testing.T) {
		_, err := Canonicalize(filepath.Join(file, "x"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPathNotFound), "a file used as a directory should be path not found")
		assert.False(t, errors.Is(err, ErrIOFailure))
	})

	t.Run("kind_dir_on_file", func(t *testing.T) {
		_, err := CanonicalizeKind(file, KindDir)
		assert.True(t, errors.Is(err, ErrNotADirectory), "error should be not a directory")
	})

	t.Run("kind_file_on_dir", func(t *testing.T) {
		_, err := CanonicalizeKind(sub, KindFile)
		assert.True(t, errors.Is(err, ErrNotAFile), "error should be not a file")
	})

	t.Run("kind_file_through_symlink", func(t *testing.T) {
		got, err := CanonicalizeKind(filepath.Join(link, "f.txt"), KindFile)
		require.NoError(t, err)
		assert.Equal(t, file, got)
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "docs"), ExpandHome("~/docs"))
	assert.Equal(t, "~other/docs", ExpandHome("~other/docs"), "other users are not expanded")
	assert.Equal(t, "/abs", ExpandHome("/abs"))
}

func TestIsWithinAndRel(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		path    string
		within  bool
		wantRel string
	}{
		{name: "equal", base: "/base", path: "/base", within: true, wantRel: "."},
		{name: "nested", base: "/base", path: "/base/a/b", within: true, wantRel: "a/b"},
		{name: "sibling_prefix", base: "/base", path: "/base2/a", within: false},
		{name: "parent", base: "/base", path: "/", within: false},
		{name: "root_base", base: "/", path: "/x", within: true, wantRel: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.within, IsWithin(tt.base, tt.path), "containment should match")

			rel, err := Rel(tt.base, tt.path)
			if !tt.within {
				assert.True(t, errors.Is(err, ErrOutsideBase), "error should be outside base")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRel, rel)
		})
	}
}

func TestIOError(t *testing.T) {
	err := NewIOError("reading", "/x", os.ErrPermission)
	assert.True(t, errors.Is(err, ErrIOFailure), "io error should match sentinel")
	assert.True(t, errors.Is(err, os.ErrPermission), "io error should unwrap")
	assert.Contains(t, err.Error(), "reading /x")
	assert.NoError(t, NewIOError("reading", "/x", nil))
}
