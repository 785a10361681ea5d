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

// internal/meta/tags.go
// Standard tags attached to every response.

package meta

import (
	"fmt"
	"time"
)

// BuildStandardTags sets the labels used to identify the producer.
func BuildStandardTags(m *Meta, startTime time.Time) {
	if m.Tags == nil {
		m.Tags = make(map[string]string)
	}
	// Start time lets a reader compute uptime.
	m.Tags["start_time"] = fmt.Sprintf("%d", startTime.Unix())
	m.Tags["job"] = "logcap"
	m.Tags["instance"] = m.Hostname
}
