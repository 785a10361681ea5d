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

// internal/meta/meta.go

package meta

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/devpospicha/logcap/internal/utils"
)

// Meta describes the host a capture was taken on. It is attached to
// collect responses so a shared log can be traced back to its machine.
type Meta struct {
	InstanceID      string            `json:"instance_id"`
	Version         string            `json:"version"`
	HostID          string            `json:"host_id"`
	Hostname        string            `json:"hostname"`
	OS              string            `json:"os"`
	Platform        string            `json:"platform"`
	PlatformVersion string            `json:"platform_version"`
	KernelVersion   string            `json:"kernel_version"`
	Architecture    string            `json:"architecture"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// BuildMeta collects host information with gopsutil. Failures are logged
// and leave the matching fields empty.
func BuildMeta(instanceID, version string, startTime time.Time) *Meta {
	hostInfo, err := host.Info()
	if err != nil {
		utils.Warn("Failed to get host info: %v", err)
		hostInfo = &host.InfoStat{}
	}

	m := &Meta{
		InstanceID:      instanceID,
		Version:         version,
		HostID:          hostInfo.HostID,
		Hostname:        utils.GetHostname(),
		OS:              hostInfo.OS,
		Platform:        hostInfo.Platform,
		PlatformVersion: hostInfo.PlatformVersion,
		KernelVersion:   hostInfo.KernelVersion,
		Architecture:    runtime.GOARCH,
	}
	BuildStandardTags(m, startTime)
	return m
}

// Clone returns a copy of m with extra tags merged over its own.
func (m *Meta) Clone(extraTags map[string]string) *Meta {
	if m == nil {
		return nil
	}
	clone := *m
	clone.Tags = make(map[string]string, len(m.Tags)+len(extraTags))
	for k, v := range m.Tags {
		clone.Tags[k] = v
	}
	for k, v := range extraTags {
		clone.Tags[k] = v
	}
	return &clone
}
