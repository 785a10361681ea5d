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

// internal/agent/agent.go
// Wires the store, sources, publisher and collector into one process.

package agent

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/devpospicha/logcap/internal/config"
	"github.com/devpospicha/logcap/internal/identity"
	"github.com/devpospicha/logcap/internal/logs/logcollector"
	"github.com/devpospicha/logcap/internal/logs/logsource"
	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/meta"
	"github.com/devpospicha/logcap/internal/metrics"
	"github.com/devpospicha/logcap/internal/publish"
	"github.com/devpospicha/logcap/internal/server"
	"github.com/devpospicha/logcap/internal/utils"
)

// Agent holds everything a capture needs. Build it once per process and
// pass it where captures are triggered.
type Agent struct {
	Config     *config.Config
	InstanceID string
	Version    string
	Store      *logstore.Store
	Sources    *logsource.Registry
	Provider   *publish.Provider
	Collector  *logcollector.Collector
	Meta       *meta.Meta
	StartTime  time.Time
	Ctx        context.Context
}

// NewAgent opens the log store (creating today's files and sweeping old
// ones), builds the sources and starts the capture workers.
func NewAgent(ctx context.Context, cfg *config.Config, version string) (*Agent, error) {
	instanceID, err := identity.LoadOrCreateInstanceID(cfg.Storage.StateDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get instance ID")
	}

	categories, err := ParseCategories(cfg.Storage.Categories)
	if err != nil {
		return nil, err
	}

	metrics.Init()
	start := time.Now()

	store := logstore.Open(cfg.Storage.Root,
		logstore.WithCategories(categories...),
		logstore.WithMinFreeBytes(cfg.Storage.MinFreeBytes),
	)
	sources := logsource.NewRegistry(cfg)
	provider := publish.NewProvider(cfg.Publish.Authority)
	collector := logcollector.New(ctx, store, sources, provider, logcollector.Options{
		Workers:        cfg.Collector.Workers,
		QueueSize:      cfg.Collector.QueueSize,
		CaptureTimeout: cfg.Collector.CaptureTimeout,
	})

	return &Agent{
		Config:     cfg,
		InstanceID: instanceID,
		Version:    version,
		Store:      store,
		Sources:    sources,
		Provider:   provider,
		Collector:  collector,
		Meta:       meta.BuildMeta(instanceID, version, start),
		StartTime:  start,
		Ctx:        ctx,
	}, nil
}

// ParseCategories maps configured names to categories. No names means all.
func ParseCategories(names []string) ([]logstore.Category, error) {
	if len(names) == 0 {
		return logstore.All(), nil
	}
	out := make([]logstore.Category, 0, len(names))
	for _, name := range names {
		c, err := logstore.ParseCategory(name)
		if err != nil {
			return nil, errors.WithHintf(err, "known categories: %v", logstore.All())
		}
		out = append(out, c)
	}
	return out, nil
}

// CollectAndWait runs one capture and blocks until its callback fires or
// ctx ends.
func (a *Agent) CollectAndWait(ctx context.Context, category logstore.Category) ([]publish.Handle, logcollector.Result, error) {
	type outcome struct {
		handles []publish.Handle
		result  logcollector.Result
	}
	done := make(chan outcome, 1)

	err := a.Collector.Collect(category, func(handles []publish.Handle, result logcollector.Result) {
		done <- outcome{handles: handles, result: result}
	})
	if err != nil {
		return nil, logcollector.Result{}, err
	}

	select {
	case o := <-done:
		return o.handles, o.result, nil
	case <-ctx.Done():
		return nil, logcollector.Result{}, ctx.Err()
	}
}

// Start serves the HTTP provider until ctx is cancelled and tells systemd
// when it is ready and when it is stopping.
func (a *Agent) Start(ctx context.Context) error {
	metrics.RegisterDirUsage(a.Store.Dir())

	var limiter *rate.Limiter
	if a.Config.Server.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.Config.Server.RateLimit), a.Config.Server.Burst)
	}
	handler := server.NewHandler(a.Store, a.Collector, a.Provider, a.Meta, limiter)
	srv := &server.Server{
		Engine:   server.NewRouter(server.RouterDeps{Handler: handler, Logger: utils.L()}),
		Addr:     a.Config.Server.Listen,
		CertFile: a.Config.Server.CertFile,
		KeyFile:  a.Config.Server.KeyFile,
		CAFile:   a.Config.Server.CAFile,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			utils.Warn("systemd notify failed: %v", err)
		} else if ok {
			utils.Debug("Notified systemd: ready")
		}
		<-gctx.Done()
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		return nil
	})

	utils.Info("logcap %s serving %s on %s", a.Version, a.Store.Dir(), a.Config.Server.Listen)
	return g.Wait()
}

// Close stops the collector, running queued captures first, then closes
// the sources.
func (a *Agent) Close() error {
	var errs error
	if err := a.Collector.Close(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}
	if err := a.Sources.Close(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}
	utils.Info("Agent shutdown complete")
	return errs
}
