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

// internal/utils/cursor.go
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// LoadCursor reads a saved source position (journald cursor, docker since
// timestamp) from a file.
// It returns an empty string and nil error if the file does not exist.
func LoadCursor(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil // File doesn't exist, return empty cursor and no error
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveCursor writes the given cursor to a file, creating its directory.
func SaveCursor(path, cursor string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cursor), 0644)
}
