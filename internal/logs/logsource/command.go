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

// internal/logs/logsource/command.go

package logsource

import (
	"context"
	"strings"

	"github.com/devpospicha/logcap/internal/command"
)

// CommandSource dumps by running one program and clears by running another,
// e.g. `logcat -d` and `logcat -c`.
type CommandSource struct {
	dump  []string
	clear []string
}

// NewCommandSource validates both argv lists. An empty clear argv makes
// Clear a no-op.
func NewCommandSource(dump, clear []string) (*CommandSource, error) {
	if err := command.Validate(dump); err != nil {
		return nil, err
	}
	if len(clear) > 0 {
		if err := command.Validate(clear); err != nil {
			return nil, err
		}
	}
	return &CommandSource{dump: dump, clear: clear}, nil
}

func (c *CommandSource) Name() string {
	return "command:" + strings.Join(c.dump, " ")
}

func (c *CommandSource) Dump(ctx context.Context, emit func(string) error) error {
	return command.Stream(ctx, c.dump, emit)
}

func (c *CommandSource) Clear(ctx context.Context) error {
	if len(c.clear) == 0 {
		return nil
	}
	return command.Run(ctx, c.clear)
}
