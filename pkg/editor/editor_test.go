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

package editor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/prompt"
)

type call struct {
	name string
	args []string
}

type fakeEnv struct {
	env       map[string]string
	installed map[string]bool
	calls     []call
}

func (f *fakeEnv) getenv(k string) string { return f.env[k] }

func (f *fakeEnv) lookPath(name string) (string, error) {
	if f.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeEnv) run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return nil
}

func newEditor(f *fakeEnv, input string, withBuiltin bool) (*Editor, *bytes.Buffer) {
	out := &bytes.Buffer{}
	lines := prompt.NewLineReader(strings.NewReader(input), out)
	var builtin *prompt.LineReader
	if withBuiltin {
		builtin = lines
	}
	return New(prompt.NewLinePrompter(lines), builtin, out,
		WithEnv(f.getenv), WithLookPath(f.lookPath), WithRunner(f.run)), out
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestEditPrefersEnvironment(t *testing.T) {
	f := &fakeEnv{
		env:       map[string]string{"EDITOR": "code -w"},
		installed: map[string]bool{"vim": true},
	}
	e, _ := newEditor(f, "", true)

	used, err := e.Edit(testContext(t), "/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "code -w", used)
	require.Len(t, f.calls, 1)
	assert.Equal(t, call{name: "code", args: []string{"-w", "/tmp/a.txt"}}, f.calls[0], "editor args should be split")
}

func TestEditSelectsInstalled(t *testing.T) {
	f := &fakeEnv{installed: map[string]bool{"nano": true, "nvim": true}}
	e, out := newEditor(f, "2\n", true)

	assert.Equal(t, []string{"nano", "nvim", BuiltinName}, e.Candidates())

	used, err := e.Edit(testContext(t), "/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "nvim", used)
	assert.Equal(t, []call{{name: "nvim", args: []string{"/tmp/a.txt"}}}, f.calls)
	assert.Contains(t, out.String(), "Choose your editor")
}

func TestEditSingleCandidateSkipsPrompt(t *testing.T) {
	f := &fakeEnv{installed: map[string]bool{"vim": true}}
	e, out := newEditor(f, "", false)

	used, err := e.Edit(testContext(t), "/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "vim", used)
	assert.NotContains(t, out.String(), "Choose your editor")
}

func TestEditNoEditor(t *testing.T) {
	e, _ := newEditor(&fakeEnv{}, "", false)
	_, err := e.Edit(testContext(t), "/tmp/a.txt")
	assert.True(t, errors.Is(err, ErrNoEditor))
}

func TestBuiltinEditor(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	path := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("old line\n"), 0o600))

	e, out := newEditor(&fakeEnv{}, "first\nsecond\n.\n", true)
	used, err := e.Edit(testContext(t), path)
	require.NoError(t, err)
	assert.Equal(t, BuiltinName, used)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(got))
	assert.Contains(t, out.String(), "1: old line", "current content should be shown")
	assert.Contains(t, out.String(), "✓ File saved successfully")
}

func TestBuiltinEditorNoInputKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(path, []byte("keep\n"), 0o600))

	e, _ := newEditor(&fakeEnv{}, ".\n", true)
	_, err := e.Edit(testContext(t), path)
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(got))
}
