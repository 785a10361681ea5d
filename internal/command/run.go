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

// internal/command/run.go

package command

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/devpospicha/logcap/internal/utils"
)

const stderrTail = 512

// Stream runs argv and calls emit for every line of stdout, without the
// line terminator. Output is read with bufio.Reader so long lines are not
// split. If emit returns an error the process is killed and that error is
// returned. A non-zero exit is reported after all output has been emitted.
func Stream(ctx context.Context, argv []string, emit func(string) error) error {
	if err := Validate(argv); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrapf(err, "stdout pipe for %s", argv[0])
	}
	if err := cmd.Start(); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "start %s", argv[0]),
			"check that the program is installed and on PATH",
		)
	}
	utils.Debug("Started %s (pid %d)", strings.Join(argv, " "), cmd.Process.Pid)

	reader := bufio.NewReader(stdout)
	var emitErr, readErr error
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if emitErr = emit(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")); emitErr != nil {
				cancel()
				break
			}
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
	}
	if emitErr != nil || readErr != nil {
		// Unblock a writer stuck on a full pipe before waiting.
		_, _ = io.Copy(io.Discard, reader)
	}

	waitErr := cmd.Wait()
	switch {
	case emitErr != nil:
		return emitErr
	case readErr != nil:
		return errors.Wrapf(readErr, "read output of %s", argv[0])
	case waitErr != nil:
		return errors.Wrapf(waitErr, "%s failed: %s", argv[0], tail(stderr.String()))
	}
	return nil
}

// Run executes argv to completion, discarding stdout.
func Run(ctx context.Context, argv []string) error {
	if err := Validate(argv); err != nil {
		return err
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s failed: %s", argv[0], tail(string(out)))
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}
