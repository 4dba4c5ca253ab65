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
	"io"
	"sync/atomic"

	"github.com/pterm/pterm"
)

// 📊 Tracker counts files discovered and files copied during a single drop.
//
// A tracker is created fresh per drop and thrown away afterwards. Both
// counters only ever grow.
type Tracker struct {
	total     atomic.Int64
	processed atomic.Int64
	out       io.Writer
}

// 🏭 New creates a tracker rendering per-file bars to out. A nil writer
// produces silent bars.
func New(out io.Writer) *Tracker {
	return &Tracker{out: out}
}

// IncrementTotal records one more file found by the pre-scan
func (t *Tracker) IncrementTotal() {
	t.total.Add(1)
}

// IncrementProcessed records one more file copied
func (t *Tracker) IncrementProcessed() {
	t.processed.Add(1)
}

// Snapshot returns the processed and total counts
func (t *Tracker) Snapshot() (processed, total int) {
	return int(t.processed.Load()), int(t.total.Load())
}

// String renders the current counts with Format
func (t *Tracker) String() string {
	return Format(t.Snapshot())
}

// -- Bars --

// 🟩 Bar is a display-only indicator for one file copy. Nothing it does
// feeds back into the tracker counters.
type Bar interface {
	Finish(msg string)
	Fail(msg string)
}

// NewBar starts a bar titled with the file being copied
func (t *Tracker) NewBar(title string) Bar {
	if t == nil || t.out == nil {
		return nopBar{}
	}

	pb, err := pterm.DefaultProgressbar.
		WithTotal(1).
		WithTitle(title).
		WithWriter(t.out).
		WithShowElapsedTime(false).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return nopBar{}
	}

	return &ptermBar{bar: pb, out: t.out}
}

type ptermBar struct {
	bar *pterm.ProgressbarPrinter
	out io.Writer
}

func (b *ptermBar) Finish(msg string) {
	b.bar.Increment()
	_, _ = b.bar.Stop()
	if msg != "" {
		pterm.Success.WithWriter(b.out).Println(msg)
	}
}

func (b *ptermBar) Fail(msg string) {
	_, _ = b.bar.Stop()
	if msg != "" {
		pterm.Error.WithWriter(b.out).Println(msg)
	}
}

type nopBar struct{}

func (nopBar) Finish(string) {}
func (nopBar) Fail(string)   {}
