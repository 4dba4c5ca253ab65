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

package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerCounts(t *testing.T) {
	tr := New(nil)

	for i := 0; i < 3; i++ {
		tr.IncrementTotal()
	}
	tr.IncrementProcessed()

	processed, total := tr.Snapshot()
	assert.Equal(t, 1, processed, "processed should count copies")
	assert.Equal(t, 3, total, "total should count discoveries")
	assert.Equal(t, "⏳ Progress: 1/3 (33%)", tr.String())
}

func TestSilentBar(t *testing.T) {
	tr := New(nil)
	bar := tr.NewBar("a.txt")
	assert.IsType(t, nopBar{}, bar, "nil writer should give a silent bar")

	// must not panic
	bar.Finish("done")
	bar.Fail("failed")

	processed, total := tr.Snapshot()
	assert.Zero(t, processed, "bars should not touch counters")
	assert.Zero(t, total, "bars should not touch counters")
}

func TestRenderedBar(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.NewBar("a.txt").Finish("copied a.txt")

	assert.Contains(t, buf.String(), "copied a.txt", "finish message should be written")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name      string
		processed int
		total     int
		want      string
	}{
		{name: "in_progress", processed: 1, total: 3, want: "⏳ Progress: 1/3 (33%)"},
		{name: "complete", processed: 3, total: 3, want: "✅ Progress: 3/3 (100%)"},
		{name: "empty_drop", processed: 0, total: 0, want: "✅ Progress: 0/0 (0%)"},
		{name: "half", processed: 2, total: 4, want: "⏳ Progress: 2/4 (50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.processed, tt.total))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "📦 1 file, 0 directories, 1.0 KiB", FormatSummary(1, 0, 1024))
	assert.Equal(t, "📦 3 files, 1 directory, 10 B", FormatSummary(3, 1, 10))
	assert.Equal(t, "📄 Copied a.txt (2.0 KiB)", FormatCopied("a.txt", 2048))
}
