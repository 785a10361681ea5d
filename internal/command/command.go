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

// internal/command/command.go

// Package command runs the external programs that back command sources.
// Only allowlisted executables run, and arguments are checked for shell
// metacharacters even though nothing is passed through a shell.
package command

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/devpospicha/logcap/internal/utils"
)

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrNotAllowed   = errors.New("command not allowed")
	ErrUnsafeArg    = errors.New("invalid characters in arguments")
)

// Strict allowlist, matched on the executable's base name.
var allowed = map[string]bool{
	"logcat":     true,
	"journalctl": true,
	"dmesg":      true,
	"log":        true,
	"cat":        true,
	"tail":       true,
}

const unsafeChars = "&|;$><`\\"

// Allowed returns the sorted allowlist.
func Allowed() []string {
	return utils.Keys(allowed)
}

// Validate checks argv against the allowlist and the argument rules.
func Validate(argv []string) error {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return ErrEmptyCommand
	}
	name := filepath.Base(argv[0])
	if !allowed[name] {
		return errors.WithHintf(
			errors.Wrapf(ErrNotAllowed, "%s", name),
			"allowed: %v", Allowed(),
		)
	}
	for _, a := range argv[1:] {
		if strings.ContainsAny(a, unsafeChars) {
			return errors.Wrapf(ErrUnsafeArg, "%q", a)
		}
	}
	return nil
}
