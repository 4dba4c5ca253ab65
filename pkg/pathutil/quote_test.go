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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnquote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "docs", want: "docs"},
		{name: "double_quoted", in: `"my folder"`, want: "my folder"},
		{name: "single_quoted", in: `'my folder'`, want: "my folder"},
		{name: "quoted_keeps_backslashes", in: `"C:\Users\me"`, want: `C:\Users\me`},
		{name: "escaped_space", in: `my\ folder`, want: "my folder"},
		{name: "surrounding_whitespace", in: "  docs  ", want: "docs"},
		{name: "unterminated_quote_kept", in: `"docs`, want: `"docs`},
		{name: "mismatched_quotes_kept", in: `"docs'`, want: `"docs'`},
		{name: "unterminated_quote_keeps_backslashes", in: `"C:\My Folder`, want: `"C:\My Folder`},
		{name: "lone_quote_kept", in: `'`, want: `'`},
		{name: "trailing_backslash_kept", in: `docs\`, want: `docs\`},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unquote(tt.in), "unquoted value should match")
		})
	}
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "windows_quoted_with_space",
			in:   `"C:\My Folder\a.txt" b.txt`,
			want: []string{`C:\My Folder\a.txt`, "b.txt"},
		},
		{
			name: "unix_escaped_space",
			in:   `/home/x/my\ folder/a.txt /home/x/b.txt`,
			want: []string{"/home/x/my folder/a.txt", "/home/x/b.txt"},
		},
		{
			name: "unix_quoted_with_space",
			in:   `"/home/x/my folder/a.txt" /home/x/b.txt`,
			want: []string{"/home/x/my folder/a.txt", "/home/x/b.txt"},
		},
		{
			name: "single_quotes",
			in:   `'/tmp/a b' /tmp/c`,
			want: []string{"/tmp/a b", "/tmp/c"},
		},
		{
			name: "escaped_quote_inside_double_quotes",
			in:   `"say \"hi\".txt"`,
			want: []string{`say "hi".txt`},
		},
		{
			name: "extra_whitespace_discarded",
			in:   "  a   \t b  ",
			want: []string{"a", "b"},
		},
		{
			name: "unterminated_quote_runs_to_end",
			in:   `a "b c`,
			want: []string{"a", "b c"},
		},
		{
			name: "empty_quotes_discarded",
			in:   `"" a`,
			want: []string{"a"},
		},
		{
			name: "blank_input",
			in:   "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPaths(tt.in), "tokens should match")
		})
	}
}
