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

// internal/logs/logsource/source.go
// Package logsource provides the Source interface for the external log
// buffers a capture dumps and clears.

package logsource

import (
	"context"
)

// Source is the dump/clear pair backing one log category.
//
// Dump streams every line currently in the buffer to emit, in order and
// without line terminators. It stops and returns emit's error if emit fails.
// Clear empties the buffer so the next Dump only sees newer lines; it is
// only called after the previous Dump was persisted.
type Source interface {
	Name() string
	Dump(ctx context.Context, emit func(line string) error) error
	Clear(ctx context.Context) error
}
