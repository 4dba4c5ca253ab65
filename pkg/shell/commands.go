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

package shell

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/dbmg/pkg/config"
	"github.com/walteh/dbmg/pkg/copier"
	"github.com/walteh/dbmg/pkg/log"
	"github.com/walteh/dbmg/pkg/navigation"
	"github.com/walteh/dbmg/pkg/pathutil"
	"github.com/walteh/dbmg/pkg/progress"
	"github.com/walteh/dbmg/pkg/store"
)

// -- Navigation --

func (s *Shell) list(ctx context.Context, _ string) error {
	entries, err := s.state.ListDirectories(ctx)
	if err != nil {
		return errors.Errorf("listing %s: %w", s.state.DisplayPath(), err)
	}

	out := make([]log.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, log.Entry{Name: e.Name, IsDir: e.IsDir, IsSymlink: e.IsSymlink, Size: e.Size})
	}
	s.console.LogListing(ctx, s.state.DisplayPath(), out)
	return nil
}

func (s *Shell) pwd(ctx context.Context, _ string) error {
	s.console.Plain(s.state.DisplayPath())
	return nil
}

func (s *Shell) cd(ctx context.Context, rest string) error {
	dir := rest
	if dir == "" {
		dir = s.state.BasePath()
	}
	if _, err := s.state.ChangeDirectory(ctx, dir); err != nil {
		return err
	}
	s.console.Plain(s.state.DisplayPath())
	return nil
}

// -- Files --

func (s *Shell) edit(ctx context.Context, rest string) error {
	if s.editor == nil {
		return errors.Errorf("no editor configured")
	}

	path, err := s.state.VerifyFileExists(rest)
	if err != nil {
		return err
	}

	used, err := s.editor.Edit(ctx, path)
	if err != nil {
		return errors.Errorf("editing %s: %w", filepath.Base(path), err)
	}
	s.console.Successf("File edited with %s", used)
	return nil
}

func (s *Shell) target(ctx context.Context, rest string) error {
	switch rest {
	case "":
		if t, ok := s.state.TargetDirectory(); ok {
			s.console.Infof("Target directory: %s", t)
		} else {
			s.console.Info("No target directory set")
		}
		return nil
	case "--clear":
		s.state.ClearTargetDirectory()
		s.console.Success("Target directory cleared")
		return nil
	}

	resolved := s.state.ResolvePath(pathutil.ExpandHome(pathutil.Unquote(rest)))
	canonical, err := pathutil.CanonicalizeKind(resolved, pathutil.KindDir)
	if err != nil {
		return errors.Errorf("setting target: %w", err)
	}

	s.state.SetTargetDirectory(canonical)
	s.console.Successf("Target directory set to %s", canonical)
	return nil
}

// -- Drop --

func (s *Shell) newEngine() (*copier.Engine, error) {
	ignore := append([]string(nil), s.ignore...)
	if s.cfg != nil {
		ignore = append(ignore, s.cfg.IgnorePatterns...)
	}
	return copier.New(copier.Options{
		Tracker:        progress.New(s.progress),
		IgnorePatterns: ignore,
		Verify:         s.verify,
	})
}

// drop copies the paths on the line, or a prompted drag-and-drop line, into
// the current directory
func (s *Shell) drop(ctx context.Context, rest string) error {
	if rest == "" {
		line, err := s.prompter.Input("Drag and drop files/folders here")
		if err != nil {
			return errors.Errorf("reading paths: %w", err)
		}
		rest = line
	}

	tokens := pathutil.SplitPaths(rest)
	if len(tokens) == 0 {
		s.console.Warning("No paths given")
		return nil
	}

	sources := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		sources = append(sources, s.state.ResolvePath(pathutil.ExpandHome(tok)))
	}

	engine, err := s.newEngine()
	if err != nil {
		return err
	}

	summary, err := engine.Drop(ctx, sources, s.state.CurrentPath())
	ReportDrop(ctx, s.console, summary)
	if err != nil {
		return errors.Errorf("dropping: %w", err)
	}
	return nil
}

// 📦 ReportDrop prints the outcome of a drop: skipped sources, one line per
// copied source, the progress counter and a closing summary
func ReportDrop(ctx context.Context, console *log.Logger, summary *copier.Summary) {
	if summary == nil {
		return
	}

	for _, m := range summary.Missing {
		console.Warningf("Path not found, skipped: %s", m)
	}

	var files, dirs int
	var size int64
	for _, r := range summary.Results {
		ReportResult(ctx, console, r)
		files += r.Files
		dirs += r.Dirs
		size += r.Bytes
	}

	console.Plain(progress.Format(summary.Processed, summary.Total))
	if len(summary.Results) > 0 {
		console.Plain(progress.FormatSummary(files, dirs, size))
	}
}

// ReportResult prints one copied source and anything it skipped
func ReportResult(ctx context.Context, console *log.Logger, r *copier.Result) {
	if r == nil {
		return
	}
	for _, skipped := range r.Skipped {
		console.Warningf("Skipped %s", skipped)
	}
	console.LogDrop(ctx, log.DropOperation{
		Source:      r.Source,
		Destination: r.Destination,
		Files:       r.Files,
		Dirs:        r.Dirs,
		Bytes:       r.Bytes,
	})
}

// offerDrop asks whether to drop more files after a store
func (s *Shell) offerDrop(ctx context.Context) error {
	ok, err := s.prompter.Confirm("Would you like to drop any files/folders?")
	if err != nil || !ok {
		return err
	}
	return s.drop(ctx, "")
}

// -- Init --

func (s *Shell) initBase(ctx context.Context, rest string) error {
	base := rest
	if base == "" {
		answer, err := s.prompter.Input("Enter the base path for db-mg")
		if err != nil {
			return errors.Errorf("reading base path: %w", err)
		}
		base = answer
	}

	cfg, err := config.Initialize(ctx, base, s.configPath, s.now())
	if err != nil {
		return errors.Errorf("initializing: %w", err)
	}

	state, err := navigation.New(ctx, cfg.BasePath, navigation.WithChdir(s.chdir))
	if err != nil {
		return errors.Errorf("opening new base: %w", err)
	}
	if err := state.Sync(ctx, state.BasePath()); err != nil {
		return err
	}

	if t, ok := s.state.TargetDirectory(); ok {
		state.SetTargetDirectory(t)
	}

	s.state = state
	s.cfg = cfg

	zerolog.Ctx(ctx).Info().Str("base", cfg.BasePath).Msg("shell re-anchored")
	s.console.Successf("Initialized db-mg at %s", cfg.BasePath)
	for _, dir := range cfg.Directories {
		s.console.Plain("  📁 " + dir)
	}
	return nil
}

// -- Store --

func (s *Shell) newStore() (*store.Store, error) {
	if s.cfg == nil {
		return nil, errors.Errorf("storing: %w", config.ErrConfigMissing)
	}

	engine, err := s.newEngine()
	if err != nil {
		return nil, err
	}

	return store.New(store.Options{
		Config:   s.cfg,
		Prompter: s.prompter,
		Engine:   engine,
		Console:  s.console,
		Editor:   s.editor,
	})
}

func (s *Shell) storeEntry(ctx context.Context, rest string) error {
	args := pathutil.SplitPaths(rest)
	if len(args) < 2 {
		return errors.Errorf("usage: %s", s.commands["store"].usage)
	}

	st, err := s.newStore()
	if err != nil {
		return err
	}

	kind, name := strings.ToLower(args[0]), args[1]
	switch kind {
	case "url":
		if len(args) > 2 {
			return errors.Errorf("store url takes a single NAME")
		}
		return s.storeURL(ctx, st, name)
	case "secret":
		if len(args) > 2 {
			return errors.Errorf("store secret takes a single NAME")
		}
		return s.storeSecret(ctx, st, name)
	case "critical", "emergency":
		source := ""
		if len(args) > 2 {
			source = s.state.ResolvePath(pathutil.ExpandHome(strings.Join(args[2:], " ")))
		}
		return s.storeEmergency(ctx, st, name, source)
	default:
		return errors.Errorf("unknown store kind %q, expected url, secret or critical", args[0])
	}
}

func (s *Shell) storeURL(ctx context.Context, st *store.Store, name string) error {
	if _, err := st.StoreURL(ctx, name); err != nil {
		return err
	}

	if target, ok := s.state.TargetDirectory(); ok {
		res, err := st.CopyURLsToTarget(ctx, target)
		if err != nil {
			return err
		}
		ReportResult(ctx, s.console, res)
	}

	return s.offerDrop(ctx)
}

func (s *Shell) storeSecret(ctx context.Context, st *store.Store, name string) error {
	stored, err := st.StoreSecret(ctx, name)
	if err != nil {
		return err
	}

	if target, ok := s.state.TargetDirectory(); ok {
		copyIt, err := s.prompter.Confirm("Copy this category to the target directory?")
		if err != nil {
			return err
		}
		if copyIt {
			if err := s.copyTo(ctx, stored.CategoryDir, target); err != nil {
				return err
			}
		}
	}

	return s.offerDrop(ctx)
}

func (s *Shell) storeEmergency(ctx context.Context, st *store.Store, name, source string) error {
	if _, err := st.StoreEmergency(ctx, name, source); err != nil {
		return err
	}

	dest, ok := s.state.TargetDirectory()
	if !ok {
		dest = s.state.CurrentPath()
	}

	if pathutil.IsWithin(st.EmergencyDir(), dest) {
		s.console.Infof("Already inside the Emergency folder, nothing to drop to %s", dest)
		return s.offerDrop(ctx)
	}

	copyIt, err := s.prompter.Confirm("Drop the Emergency folder contents into " + dest + "?")
	if err != nil {
		return err
	}
	if copyIt {
		if err := s.mergeInto(ctx, st.EmergencyDir(), dest); err != nil {
			return err
		}
	}

	return s.offerDrop(ctx)
}

// copyTo copies src into destRoot with a fresh tracker and reports it
func (s *Shell) copyTo(ctx context.Context, src, destRoot string) error {
	engine, err := s.newEngine()
	if err != nil {
		return err
	}

	res, err := engine.Copy(ctx, src, destRoot)
	if err != nil {
		return errors.Errorf("copying %s: %w", filepath.Base(src), err)
	}

	ReportResult(ctx, s.console, res)
	processed, total := engine.Tracker().Snapshot()
	s.console.Plain(progress.Format(processed, total))
	return nil
}

// mergeInto copies the contents of src into dest without nesting src's name
func (s *Shell) mergeInto(ctx context.Context, src, dest string) error {
	engine, err := s.newEngine()
	if err != nil {
		return err
	}

	if _, err := engine.Scan(ctx, src); err != nil {
		return errors.Errorf("scanning %s: %w", filepath.Base(src), err)
	}

	res, err := engine.CopyContents(ctx, src, dest)
	if err != nil {
		return errors.Errorf("copying %s: %w", filepath.Base(src), err)
	}

	ReportResult(ctx, s.console, res)
	processed, total := engine.Tracker().Snapshot()
	s.console.Plain(progress.Format(processed, total))
	return nil
}
