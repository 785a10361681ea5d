/*
SPDX-License-Identifier: GPL-3.0-or-later

Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com

This file is part of logcap.

logcap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

logcap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with logcap. If not, see https://www.gnu.org/licenses/.
*/

// internal/logs/logsource/file.go

package logsource

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nxadm/tail"
)

// FileSource treats a plain log file as the buffer. Dump reads it to EOF and
// Clear truncates it. A missing file is an empty buffer.
type FileSource struct {
	path string
}

func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("file source needs a path")
	}
	return &FileSource{path: path}, nil
}

func (f *FileSource) Name() string {
	return "file:" + f.path
}

func (f *FileSource) Dump(ctx context.Context, emit func(string) error) error {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return nil
	}

	t, err := tail.TailFile(f.path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.Wrapf(err, "open %s", f.path)
	}
	defer t.Cleanup()

	var stopErr error
	for line := range t.Lines {
		if stopErr != nil {
			continue // drain so the reader goroutine can exit
		}
		if line.Err != nil {
			stopErr = errors.Wrapf(line.Err, "read %s", f.path)
		} else if err := ctx.Err(); err != nil {
			stopErr = err
		} else {
			stopErr = emit(strings.TrimSuffix(line.Text, "\r"))
		}
		if stopErr != nil {
			t.Kill(nil)
		}
	}
	waitErr := t.Wait()
	if stopErr != nil {
		return stopErr
	}
	return waitErr
}

func (f *FileSource) Clear(context.Context) error {
	if err := os.Truncate(f.path, 0); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "truncate %s", f.path)
	}
	return nil
}
