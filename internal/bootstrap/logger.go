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

// internal/bootstrap/logger.go
// Initializes logger.
package bootstrap

import (
	"github.com/devpospicha/logcap/internal/config"
	"github.com/devpospicha/logcap/internal/utils"
)

// SetupLogging initialises the global logger from the Logs section.
func SetupLogging(cfg *config.Config) error {
	if err := utils.InitLogger(cfg.Logs.AppLogFile, cfg.Logs.ErrorLogFile, cfg.Logs.LogLevel); err != nil {
		return err
	}
	utils.Debug("debug logging is active")
	return nil
}
