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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// -- Sentinels --

var (
	ErrPathNotFound  = errors.Base("path not found")
	ErrNotAFile      = errors.Base("not a file")
	ErrNotADirectory = errors.Base("not a directory")
	ErrOutsideBase   = errors.Base("path is outside base directory")
	ErrIOFailure     = errors.Base("i/o failure")
)

// -- Error Types --

// 💥 IOError wraps an OS error raised while reading, writing, copying or
// canonicalizing a path. It matches ErrIOFailure with errors.Is.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIOFailure }

// 🏭 NewIOError wraps err, or returns nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
