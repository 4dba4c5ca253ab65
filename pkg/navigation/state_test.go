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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/pathutil"
)

// chdirRecorder stands in for os.Chdir so tests never move the process
type chdirRecorder struct {
	calls []string
	fail  error
}

func (c *chdirRecorder) chdir(p string) error {
	if c.fail != nil {
		return c.fail
	}
	c.calls = append(c.calls, p)
	return nil
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

// layout builds base/{docs/{inner},notes.txt} next to a sibling outside dir
func layout(t *testing.T) (root, base string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	base = filepath.Join(root, "base")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "docs", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "outside"), 0o755))
	return root, base
}

func newState(t *testing.T, base string) (*State, *chdirRecorder) {
	t.Helper()
	rec := &chdirRecorder{}
	s, err := New(testContext(t), base, WithChdir(rec.chdir))
	require.NoError(t, err, "creating state should succeed")
	return s, rec
}

func TestNew(t *testing.T) {
	_, base := layout(t)

	s, rec := newState(t, base)
	assert.Equal(t, base, s.BasePath())
	assert.Equal(t, base, s.CurrentPath())
	assert.Empty(t, rec.calls, "construction should not change directory")

	_, err := New(testContext(t), filepath.Join(base, "notes.txt"))
	assert.Error(t, err, "file base should be rejected")
}

func TestSetCurrentPath(t *testing.T) {
	ctx := testContext(t)
	root, base := layout(t)

	t.Run("existing_directory", func(t *testing.T) {
		s, rec := newState(t, base)
		require.NoError(t, s.SetCurrentPath(ctx, "docs"))
		assert.Equal(t, filepath.Join(base, "docs"), s.CurrentPath())
		assert.Equal(t, []string{filepath.Join(base, "docs")}, rec.calls, "os directory should follow")
	})

	t.Run("outside_base_is_allowed", func(t *testing.T) {
		s, _ := newState(t, base)
		require.NoError(t, s.SetCurrentPath(ctx, filepath.Join(root, "outside")))
		assert.Equal(t, filepath.Join(root, "outside"), s.CurrentPath())
	})

	t.Run("missing_directory_leaves_state_unchanged", func(t *testing.T) {
		s, rec := newState(t, base)
		err := s.SetCurrentPath(ctx, "nope")
		assert.True(t, errors.Is(err, ErrInvalidDirectory), "error should be invalid directory")
		assert.Equal(t, base, s.CurrentPath())
		assert.Empty(t, rec.calls)

		err = s.SetCurrentPath(ctx, "nope")
		assert.True(t, errors.Is(err, ErrInvalidDirectory), "repeat should fail the same way")
		assert.Equal(t, base, s.CurrentPath())
	})

	t.Run("file_is_rejected", func(t *testing.T) {
		s, _ := newState(t, base)
		err := s.SetCurrentPath(ctx, "notes.txt")
		assert.True(t, errors.Is(err, ErrInvalidDirectory))
		assert.Equal(t, base, s.CurrentPath())
	})

	t.Run("chdir_failure_commits_nothing", func(t *testing.T) {
		rec := &chdirRecorder{fail: os.ErrPermission}
		s, err := New(ctx, base, WithChdir(rec.chdir))
		require.NoError(t, err)

		err = s.SetCurrentPath(ctx, "docs")
		require.Error(t, err)
		assert.True(t, errors.Is(err, pathutil.ErrIOFailure), "chdir failure should be an io failure")
		assert.Equal(t, base, s.CurrentPath(), "memory should not move when the os refuses")
	})
}

func TestSync(t *testing.T) {
	ctx := testContext(t)
	_, base := layout(t)
	s, rec := newState(t, base)

	require.NoError(t, s.Sync(ctx, filepath.Join(base, "docs", "inner", "..")))
	assert.Equal(t, filepath.Join(base, "docs"), s.CurrentPath(), "sync should canonicalize")
	assert.Equal(t, []string{filepath.Join(base, "docs")}, rec.calls)

	err := s.Sync(ctx, filepath.Join(base, "missing"))
	assert.True(t, errors.Is(err, ErrInvalidDirectory))
}

func TestVerifyFileExists(t *testing.T) {
	_, base := layout(t)
	s, _ := newState(t, base)

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "existing_file", in: "notes.txt", want: filepath.Join(base, "notes.txt")},
		{name: "quoted_file", in: `"notes.txt"`, want: filepath.Join(base, "notes.txt")},
		{name: "directory", in: "docs", wantErr: ErrNotAFile},
		{name: "missing", in: "ghost.txt", wantErr: ErrFileNotFound},
		{name: "empty", in: "", wantErr: ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.VerifyFileExists(tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error kind should match: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing_message_names_file_and_directory", func(t *testing.T) {
		_, err := s.VerifyFileExists("ghost.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost.txt")
		assert.Contains(t, err.Error(), base)
	})
}

func TestTargetDirectory(t *testing.T) {
	_, base := layout(t)
	s, _ := newState(t, base)

	_, ok := s.TargetDirectory()
	assert.False(t, ok, "no target initially")

	got := s.SetTargetDirectory("later/dest")
	assert.Equal(t, filepath.Join(base, "later", "dest"), got, "target should resolve against current")

	target, ok := s.TargetDirectory()
	assert.True(t, ok)
	assert.Equal(t, got, target)

	s.ClearTargetDirectory()
	_, ok = s.TargetDirectory()
	assert.False(t, ok)
}

func TestNewRejectsUnusableBase(t *testing.T) {
	ctx := testContext(t)
	_, base := layout(t)

	tests := []struct {
		name string
		base string
	}{
		{name: "missing", base: filepath.Join(base, "gone")},
		{name: "file", base: filepath.Join(base, "notes.txt")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(ctx, tt.base)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDirectory), "unusable base should be an invalid directory")
		})
	}
}

func TestInSync(t *testing.T) {
	ctx := testContext(t)
	_, base := layout(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s, err := New(ctx, base)
	require.NoError(t, err)

	require.NoError(t, s.Sync(ctx, base))
	ok, err := s.InSync()
	require.NoError(t, err)
	assert.True(t, ok, "os directory should match after sync")

	_, err = s.ChangeDirectory(ctx, "docs")
	require.NoError(t, err)
	ok, err = s.InSync()
	require.NoError(t, err)
	assert.True(t, ok, "os directory should match after navigation")

	require.NoError(t, os.Chdir(base))
	ok, err = s.InSync()
	require.NoError(t, err)
	assert.False(t, ok, "external chdir should be detected")
}
