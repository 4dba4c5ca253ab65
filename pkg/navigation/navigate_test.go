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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestChangeDirectory(t *testing.T) {
	ctx := testContext(t)
	root, base := layout(t)

	require.NoError(t, os.Symlink(filepath.Join(root, "outside"), filepath.Join(base, "escape")))
	require.NoError(t, os.Symlink(filepath.Join(base, "docs"), filepath.Join(base, "docs-link")))

	tests := []struct {
		name    string
		start   string
		dir     string
		want    string
		wantErr error
	}{
		{name: "into_child", start: ".", dir: "docs", want: "docs"},
		{name: "nested", start: ".", dir: "docs/inner", want: "docs/inner"},
		{name: "quoted", start: ".", dir: `"docs"`, want: "docs"},
		{name: "parent", start: "docs/inner", dir: "..", want: "docs"},
		{name: "parent_with_slash", start: "docs", dir: "../", want: "."},
		{name: "parent_at_base", start: ".", dir: "..", wantErr: ErrAlreadyAtBase},
		{name: "escape_with_dots", start: "docs", dir: "../../", wantErr: ErrOutsideBase},
		{name: "absolute_outside", start: ".", dir: filepath.Join(root, "outside"), wantErr: ErrOutsideBase},
		{name: "symlink_outside", start: ".", dir: "escape", wantErr: ErrOutsideBase},
		{name: "symlink_inside", start: ".", dir: "docs-link", want: "docs"},
		{name: "missing", start: ".", dir: "nope", wantErr: ErrInvalidDirectory},
		{name: "file", start: ".", dir: "notes.txt", wantErr: ErrInvalidDirectory},
		{name: "through_file", start: ".", dir: "notes.txt/x", wantErr: ErrInvalidDirectory},
		{name: "empty", start: ".", dir: "", wantErr: ErrInvalidDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newState(t, base)
			require.NoError(t, s.SetCurrentPath(ctx, filepath.Join(base, tt.start)))
			before := s.CurrentPath()
			calls := len(rec.calls)

			got, err := s.ChangeDirectory(ctx, tt.dir)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error kind should match: %v", err)
				assert.Equal(t, before, s.CurrentPath(), "failed navigation should leave state unchanged")
				assert.Len(t, rec.calls, calls, "failed navigation should not chdir")
				return
			}

			want := filepath.Join(base, tt.want)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, want, s.CurrentPath())
			assert.Equal(t, want, rec.calls[len(rec.calls)-1], "os directory should follow navigation")
		})
	}
}

func TestListDirectories(t *testing.T) {
	ctx := testContext(t)
	_, base := layout(t)

	require.NoError(t, os.WriteFile(filepath.Join(base, "B.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(base, "alpha"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(base, "docs"), filepath.Join(base, "zlink")))
	require.NoError(t, os.Symlink(filepath.Join(base, "gone"), filepath.Join(base, "dangling")))

	s, _ := newState(t, base)
	entries, err := s.ListDirectories(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"alpha", "docs", "zlink", "B.txt", "dangling", "notes.txt"}, names,
		"directories should come first, then files, each sorted by name")

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.True(t, byName["zlink"].IsDir, "symlink to dir should be classified as dir")
	assert.True(t, byName["zlink"].IsSymlink)
	assert.False(t, byName["dangling"].IsDir)
	assert.Equal(t, int64(5), byName["B.txt"].Size)
	assert.Equal(t, filepath.Join(base, "notes.txt"), byName["notes.txt"].Path)
}

func TestListDirectoriesEmpty(t *testing.T) {
	ctx := testContext(t)
	_, base := layout(t)
	s, _ := newState(t, base)
	require.NoError(t, s.SetCurrentPath(ctx, "docs/inner"))

	entries, err := s.ListDirectories(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDisplayPath(t *testing.T) {
	_, base := layout(t)
	s, _ := newState(t, base)
	ctx := testContext(t)

	assert.Equal(t, "/", s.DisplayPath())

	_, err := s.ChangeDirectory(ctx, "docs/inner")
	require.NoError(t, err)
	assert.Equal(t, "/docs/inner", s.DisplayPath())
}

func TestContainmentHelpers(t *testing.T) {
	root, base := layout(t)
	s, _ := newState(t, base)

	assert.True(t, s.IsSubdirectory("docs"))
	assert.True(t, s.IsSubdirectory("."))
	assert.False(t, s.IsSubdirectory(filepath.Join(root, "outside")))
	assert.False(t, s.IsSubdirectory("../outside"))

	rel, err := s.RelativePath("docs/inner")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("docs", "inner"), rel)

	rel, err = s.RelativePath(base)
	require.NoError(t, err)
	assert.Equal(t, ".", rel)

	_, err = s.RelativePath("..")
	assert.True(t, errors.Is(err, ErrOutsideBase))
}
