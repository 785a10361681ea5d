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

// internal/logs/logsource/docker.go

package logsource

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/devpospicha/logcap/internal/utils"
)

// DockerSource captures a container's stdout and stderr. Docker logs cannot
// be erased, so Clear records the time of the last persisted dump and the
// next Dump starts from there.
type DockerSource struct {
	client    *client.Client
	container string
	sinceFile string

	mu      sync.Mutex
	since   time.Time
	pending time.Time
}

// NewDockerSource connects to host, or to the daemon from the environment
// when host is empty.
func NewDockerSource(host, containerName, sinceFile string) (*DockerSource, error) {
	if containerName == "" {
		return nil, errors.New("docker source needs a container")
	}

	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create docker client")
	}

	d := &DockerSource{client: cli, container: containerName, sinceFile: sinceFile}
	if saved, err := utils.LoadCursor(sinceFile); err != nil {
		utils.Warn("Failed to read docker since file %s: %v", sinceFile, err)
	} else if saved != "" {
		if t, err := time.Parse(time.RFC3339Nano, saved); err == nil {
			d.since = t
		} else {
			utils.Warn("Ignoring malformed docker since value %q", saved)
		}
	}
	return d, nil
}

func (d *DockerSource) Name() string {
	return "docker:" + d.container
}

func (d *DockerSource) Dump(ctx context.Context, emit func(string) error) error {
	started := time.Now()

	d.mu.Lock()
	since := d.since
	d.mu.Unlock()

	inspected, err := d.client.ContainerInspect(ctx, d.container)
	if err != nil {
		return errors.Wrapf(err, "inspect container %s", d.container)
	}

	opts := container.LogsOptions{ShowStdout: true, ShowStderr: true, Timestamps: true}
	if !since.IsZero() {
		opts.Since = since.Format(time.RFC3339Nano)
	}
	logs, err := d.client.ContainerLogs(ctx, d.container, opts)
	if err != nil {
		return errors.Wrapf(err, "logs for container %s", d.container)
	}
	defer logs.Close()

	var src io.Reader = logs
	if inspected.Config == nil || !inspected.Config.Tty {
		// Non-TTY containers multiplex stdout and stderr; merge them.
		pr, pw := io.Pipe()
		go func() {
			_, err := stdcopy.StdCopy(pw, pw, logs)
			pw.CloseWithError(err)
		}()
		defer pr.Close()
		src = pr
	}

	if err := emitLines(src, emit); err != nil {
		return err
	}

	d.mu.Lock()
	d.pending = started
	d.mu.Unlock()
	return nil
}

func (d *DockerSource) Clear(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending.IsZero() {
		return nil
	}
	if err := utils.SaveCursor(d.sinceFile, d.pending.Format(time.RFC3339Nano)); err != nil {
		return errors.Wrapf(err, "save docker since file %s", d.sinceFile)
	}
	d.since = d.pending
	d.pending = time.Time{}
	return nil
}

func (d *DockerSource) Close() error {
	return d.client.Close()
}

// emitLines splits r into lines without a length limit.
func emitLines(r io.Reader, emit func(string) error) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if emitErr := emit(strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")); emitErr != nil {
				return emitErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read log stream")
		}
	}
}
