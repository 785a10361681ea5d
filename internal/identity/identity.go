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

// internal/identity/identity.go

package identity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/devpospicha/logcap/internal/utils"
)

const fileName = "instance_id"

// LoadOrCreateInstanceID returns the persistent ID of this logcap install,
// generating and saving one under stateDir on first use.
func LoadOrCreateInstanceID(stateDir string) (string, error) {
	path := filepath.Join(stateDir, fileName)

	if data, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr == nil {
			return id, nil
		}
		utils.Warn("Replacing malformed instance ID in %s", path)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "read %s", path)
	}

	id := uuid.NewString()
	utils.Debug("Generated new instance ID: %s", id)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(id), 0600); err != nil {
		return "", errors.Wrapf(err, "write %s", path)
	}

	return id, nil
}
