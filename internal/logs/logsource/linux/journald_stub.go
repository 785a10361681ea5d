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

//go:build !linux

package linuxsource

import "context"

// JournaldSource is unavailable on this platform.
type JournaldSource struct{}

func NewJournaldSource([]string, string) (*JournaldSource, error) {
	return nil, ErrUnsupported
}

func (j *JournaldSource) Name() string { return "journald" }

func (j *JournaldSource) Dump(context.Context, func(string) error) error { return ErrUnsupported }

func (j *JournaldSource) Clear(context.Context) error { return ErrUnsupported }
