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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent listing entries
	nameWidth   = 35 // Base width for entry names
	sizeWidth   = 10 // Width for human sizes
)

// 📁 Entry is one line of a directory listing
type Entry struct {
	Name      string
	IsDir     bool
	IsSymlink bool
	Size      int64
}

// 📦 DropOperation summarizes one copied source
type DropOperation struct {
	Source      string
	Destination string
	Files       int
	Dirs        int
	Bytes       int64
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// Console returns the writer user-facing output goes to
func (l *Logger) Console() io.Writer { return l.console }

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEntry formats a listing entry for display
func (l *Logger) formatEntry(e Entry) string {
	indent := fmt.Sprintf("%*s", entryIndent, "")

	name := e.Name
	if e.IsSymlink {
		name += "@"
	}

	if e.IsDir {
		return fmt.Sprintf("%s📁 %s", indent, color.New(color.FgBlue, color.Bold).Sprint(name+"/"))
	}

	return fmt.Sprintf("%s📄 %s %s",
		indent,
		runewidth.FillRight(runewidth.Truncate(name, nameWidth, "…"), nameWidth),
		color.New(color.Faint).Sprint(fmt.Sprintf("%*s", sizeWidth, humanize.IBytes(uint64(e.Size)))))
}

// 📝 LogListing prints the location header followed by one line per entry
func (l *Logger) LogListing(ctx context.Context, location string, entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "[%s]\n", color.New(color.FgCyan).Sprint(location))
	if len(entries) == 0 {
		fmt.Fprintf(l.console, "%*s%s\n", entryIndent, "", color.New(color.Faint).Sprint("(empty)"))
	}
	for _, e := range entries {
		fmt.Fprintln(l.console, l.formatEntry(e))
	}

	l.zlog.Debug().
		Str("location", location).
		Int("entries", len(entries)).
		Msg("listed directory")
}

// 📝 LogDrop prints one line for a copied source
func (l *Logger) LogDrop(ctx context.Context, op DropOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%*s%s %s %s %s %s\n",
		entryIndent, "",
		color.New(color.FgGreen).Sprint("✓"),
		op.Source,
		color.New(color.Faint).Sprint("→"),
		color.New(color.FgCyan).Sprint(op.Destination),
		color.New(color.FgYellow).Sprintf("(%d files, %s)", op.Files, humanize.IBytes(uint64(op.Bytes))))

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Int("files", op.Files).
		Int("dirs", op.Dirs).
		Int64("bytes", op.Bytes).
		Msg("dropped")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("db-mg")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Plain writes a line with no decoration
func (l *Logger) Plain(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
