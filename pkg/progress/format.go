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
	"fmt"

	"github.com/dustin/go-humanize"
)

// Format formats a progress message with percentage
func Format(processed, total int) string {
	var percentage float64
	if total == 0 {
		if processed > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(processed) / float64(total) * 100
	}

	if processed >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", processed, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", processed, total, percentage)
}

// FormatCopied formats the line shown when one file finishes copying
func FormatCopied(name string, size int64) string {
	return fmt.Sprintf("📄 Copied %s (%s)", name, humanize.IBytes(uint64(size)))
}

// FormatSummary formats the closing line of a drop
func FormatSummary(files, dirs int, bytes int64) string {
	return fmt.Sprintf("📦 %s, %s, %s",
		plural(files, "file"),
		plural(dirs, "directory"),
		humanize.IBytes(uint64(bytes)),
	)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	if noun == "directory" {
		return fmt.Sprintf("%d directories", n)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
