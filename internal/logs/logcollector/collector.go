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

// internal/logs/logcollector/collector.go
// Package logcollector runs one-shot captures: dump a source into the
// category's managed file, clear the source, and report back with
// publishable handles.

package logcollector

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/devpospicha/logcap/internal/logs/logsource"
	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/metrics"
	"github.com/devpospicha/logcap/internal/publish"
	"github.com/devpospicha/logcap/internal/utils"
)

var (
	ErrNoSource        = errors.New("no log source bound to category")
	ErrQueueFull       = errors.New("capture queue full")
	ErrCollectorClosed = errors.New("collector closed")
)

// Sources looks up the source bound to a category.
type Sources interface {
	Lookup(category logstore.Category) (logsource.Source, bool)
}

// Options sizes the worker pool.
type Options struct {
	Workers        int
	QueueSize      int
	CaptureTimeout time.Duration // 0 = bounded only by the collector context
}

type task struct {
	category   logstore.Category
	path       string
	source     logsource.Source
	onComplete Callback
}

// Collector owns a bounded pool of capture workers.
type Collector struct {
	ctx       context.Context
	store     *logstore.Store
	sources   Sources
	publisher publish.Publisher
	timeout   time.Duration

	queue chan task
	locks map[logstore.Category]*sync.Mutex
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts opts.Workers capture workers. ctx bounds every capture.
func New(ctx context.Context, store *logstore.Store, sources Sources, publisher publish.Publisher, opts Options) *Collector {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = opts.Workers
	}

	c := &Collector{
		ctx:       ctx,
		store:     store,
		sources:   sources,
		publisher: publisher,
		timeout:   opts.CaptureTimeout,
		queue:     make(chan task, opts.QueueSize),
		locks:     make(map[logstore.Category]*sync.Mutex),
	}
	for _, category := range store.Categories() {
		c.locks[category] = &sync.Mutex{}
	}

	for i := 0; i < opts.Workers; i++ {
		c.wg.Add(1)
		go c.worker(i + 1)
	}
	utils.Info("Log collector started with %d workers (queue %d)", opts.Workers, opts.QueueSize)
	return c
}

// Collect schedules a capture of category and returns without blocking.
// Configuration errors are returned synchronously and onComplete is not
// called. Otherwise onComplete is called exactly once, from a worker
// goroutine, even if the capture cannot be queued.
func (c *Collector) Collect(category logstore.Category, onComplete Callback) error {
	path, err := c.store.Resolve(category)
	if err != nil {
		return err
	}
	src, ok := c.sources.Lookup(category)
	if !ok {
		return errors.WithHint(
			errors.Wrapf(ErrNoSource, "category %s", category),
			"add a sources entry for the category to the config file",
		)
	}

	t := task{category: category, path: path, source: src, onComplete: onComplete}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.reject(t, ErrCollectorClosed)
		return nil
	}
	select {
	case c.queue <- t:
		utils.Debug("Queued capture for %s", category)
	default:
		c.reject(t, ErrQueueFull)
	}
	return nil
}

func (c *Collector) reject(t task, reason error) {
	utils.Warn("Dropping capture for %s: %v", t.category, reason)
	metrics.ObserveCapture(t.category.String(), metrics.OutcomeDropped, 0, 0)
	go c.finish(t, Result{
		Category: t.category,
		Path:     t.path,
		State:    StateIdle,
		Err:      reason,
		Started:  time.Now(),
	})
}

func (c *Collector) worker(id int) {
	defer c.wg.Done()
	for t := range c.queue {
		c.capture(t)
	}
	utils.Debug("Capture worker #%d stopped", id)
}

// capture runs one task. Captures of the same category are serialized.
func (c *Collector) capture(t task) {
	lock := c.locks[t.category]
	lock.Lock()
	defer lock.Unlock()

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res := Result{Category: t.category, Path: t.path, State: StateDumping, Started: time.Now()}

	var buf bytes.Buffer
	err := t.source.Dump(ctx, func(line string) error {
		buf.WriteString(line)
		buf.WriteByte('\n')
		res.Lines++
		return nil
	})
	if err != nil {
		res.Err = errors.Wrapf(err, "dump %s", t.source.Name())
	} else {
		res.State = StateWriting
	}

	// Partial output is still persisted when the dump failed.
	if err := writeFile(t.path, buf.Bytes()); err != nil {
		err = errors.Wrapf(err, "write %s", t.path)
		if res.Err == nil {
			res.Err = err
		} else {
			utils.Error("Capture for %s also failed to write partial output: %v", t.category, err)
		}
	} else {
		res.Bytes = int64(buf.Len())
	}

	// Only a persisted buffer is cleared.
	if res.Err == nil {
		res.State = StateClearing
		if err := t.source.Clear(ctx); err != nil {
			res.ClearErr = errors.Wrapf(err, "clear %s", t.source.Name())
			utils.Warn("Capture for %s written but buffer not cleared: %v", t.category, res.ClearErr)
		}
		res.State = StateCompleted
	}
	res.Duration = time.Since(res.Started)

	outcome := metrics.OutcomeOK
	if res.Err != nil {
		outcome = metrics.OutcomeFailed
		utils.Error("Capture for %s failed while %s: %v", t.category, res.State, res.Err)
	} else {
		utils.Info("Captured %s: %d lines, %d bytes to %s in %s", t.category, res.Lines, res.Bytes, t.path, res.Duration)
	}
	metrics.ObserveCapture(t.category.String(), outcome, res.Duration, res.Bytes)

	c.finish(t, res)
}

func (c *Collector) finish(t task, res Result) {
	if t.onComplete == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			utils.Error("Capture callback for %s panicked: %v", t.category, r)
		}
	}()
	t.onComplete(c.Handles(), res)
}

// writeFile replaces the file's contents, recreating its directory if needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Handles publishes every registered managed file.
func (c *Collector) Handles() []publish.Handle {
	files := c.store.Files()
	handles := make([]publish.Handle, 0, len(files))
	for _, f := range files {
		h, err := c.publisher.Publish(f.Category, f.Path)
		if err != nil {
			utils.Warn("Failed to publish %s: %v", f.Path, err)
			continue
		}
		handles = append(handles, h)
	}
	return handles
}

// Close stops accepting captures, runs the ones already queued and waits
// for the workers to exit.
func (c *Collector) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	c.wg.Wait()
	utils.Info("Log collector closed")
	return nil
}
