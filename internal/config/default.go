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

package config

import (
	"os"
	"path/filepath"
)

const defaultYAML = `# logcap configuration
storage:
  root: "./data"            # managed files live in <root>/Logs, one per category per day
  min_free_bytes: 67108864  # warn at startup when the log filesystem has less free space
  # categories: [debug]     # register a subset; all known categories by default

collector:
  workers: 2                # capture worker pool size
  queue_size: 8             # pending captures before new requests are rejected
  capture_timeout: 0s       # 0 = no deadline

# Category -> source binding. Kinds: command, journald, file, docker
sources:
  debug:
    kind: journald          # clear saves a cursor; the journal itself is left intact
    # matches: ["_SYSTEMD_UNIT=app.service"]
  internal:
    kind: file
    path: "./logcap.log"
  # debug:
  #   kind: command
  #   dump: ["logcat", "-d"]
  #   clear: ["logcat", "-c"]
  # Opt-in only: as root this deletes every archived journal file on each capture.
  # debug:
  #   kind: command
  #   dump: ["journalctl", "--no-pager", "-o", "short-iso"]
  #   clear: ["journalctl", "--rotate", "--vacuum-time=1s"]
  # debug:
  #   kind: docker
  #   container: "app"

publish:
  authority: "content://logcap.file.provider"

server:
  listen: "127.0.0.1:8787"
  rate_limit: 0.5           # collect requests per second
  burst: 2

# Log Config
logs:
  app_log_file: "./logcap.log"     # Relative to path of execution
  error_log_file: "error.log"      # Relative to path of execution
  log_level: "info"                # Or "debug", etc.
`

// EnsureDefaultConfig checks if the config file exists at the specified path.
// If it does not exist, it creates the directory structure and writes the default config to the file.
func EnsureDefaultConfig(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		return os.WriteFile(path, []byte(defaultYAML), 0644)
	}
	return nil
}
