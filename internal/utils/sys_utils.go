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

// internal/utils/sys_utils.go
// Small helpers shared by the sources, collector and CLI.

package utils

import (
	"os"
	"sort"
)

// GetHostname returns the system hostname, or "unknown" if it can't be determined.
func GetHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}

// ErrMsg returns the error message if err is not nil, otherwise returns an empty string.
func ErrMsg(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

// Keys returns the sorted keys of the given map[string]bool.
func Keys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
