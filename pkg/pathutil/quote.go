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
	"strings"
	"unicode"
)

// 🧹 Unquote normalizes a single path argument typed or dragged into the shell.
//
// One matching pair of surrounding quotes is stripped and the inside is kept
// verbatim. Without surrounding quotes a backslash escapes the next character.
// Unterminated quotes and a trailing lone backslash stay in the result.
func Unquote(arg string) string {
	arg = strings.TrimSpace(arg)

	if arg != "" && (arg[0] == '"' || arg[0] == '\'') {
		if len(arg) >= 2 && arg[len(arg)-1] == arg[0] {
			return arg[1 : len(arg)-1]
		}
		// unmatched opening quote, kept as typed
		return arg
	}

	if !strings.ContainsRune(arg, '\\') {
		return arg
	}

	var b strings.Builder
	b.Grow(len(arg))

	runes := []rune(arg)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
		}
		b.WriteRune(runes[i])
	}

	return b.String()
}

// ✂️ SplitPaths tokenizes a drag-and-drop line into individual paths.
//
// Whitespace separates tokens only outside quotes. Outside quotes a backslash
// escapes the next character, so `my\ folder` stays whole. Inside double quotes
// a backslash only escapes `"` and `\`, which keeps Windows paths intact. Single
// quotes are literal. An unterminated quote runs to the end of the input.
func SplitPaths(input string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		quote   rune
		started bool
	)

	flush := func() {
		if started {
			if tok := strings.TrimSpace(cur.String()); tok != "" {
				tokens = append(tokens, tok)
			}
		}
		cur.Reset()
		started = false
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
				continue
			}
			cur.WriteRune(r)

		case quote == '"':
			if r == '"' {
				quote = 0
				continue
			}
			if r == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
				i++
				r = runes[i]
			}
			cur.WriteRune(r)

		case r == '"' || r == '\'':
			quote = r
			started = true

		case r == '\\':
			started = true
			if i+1 < len(runes) {
				i++
				r = runes[i]
			}
			cur.WriteRune(r)

		case unicode.IsSpace(r):
			flush()

		default:
			started = true
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}
