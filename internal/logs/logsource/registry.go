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

// internal/logs/logsource/registry.go
// registry.go - builds the category -> source bindings from configuration.

package logsource

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/devpospicha/logcap/internal/config"
	linuxsource "github.com/devpospicha/logcap/internal/logs/logsource/linux"
	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/utils"
)

// Registry holds the source bound to each category.
type Registry struct {
	Sources map[logstore.Category]Source
}

// NewRegistry builds a source for every configured category. Unknown
// categories, unknown kinds and sources that fail to initialise are skipped
// with a warning; the category then has no source.
func NewRegistry(cfg *config.Config) *Registry {
	reg := &Registry{Sources: make(map[logstore.Category]Source)}

	for name, sc := range cfg.Sources {
		category, err := logstore.ParseCategory(name)
		if err != nil {
			utils.Warn("Unknown log category in sources: %s (skipping)", name)
			continue
		}

		src, err := newSource(category, sc, cfg.Storage.StateDir)
		if err != nil {
			utils.Warn("Source %s for %s disabled: %v", sc.Kind, category, err)
			continue
		}
		if src == nil {
			continue
		}
		reg.Sources[category] = src
	}
	utils.Info("Loaded %d log sources", len(reg.Sources))

	return reg
}

func newSource(category logstore.Category, sc config.SourceConfig, stateDir string) (Source, error) {
	switch sc.Kind {
	case config.SourceCommand:
		return NewCommandSource(sc.Dump, sc.Clear)
	case config.SourceFile:
		return NewFileSource(sc.Path)
	case config.SourceJournald:
		if runtime.GOOS != "linux" {
			utils.Warn("journald source is only supported on Linux (skipping)")
			return nil, nil
		}
		return linuxsource.NewJournaldSource(sc.Matches, cursorPath(stateDir, category, "cursor"))
	case config.SourceDocker:
		return NewDockerSource(sc.Host, sc.Container, cursorPath(stateDir, category, "since"))
	default:
		utils.Warn("Unknown source kind: %q (skipping)", sc.Kind)
		return nil, nil
	}
}

func cursorPath(stateDir string, category logstore.Category, ext string) string {
	return filepath.Join(stateDir, fmt.Sprintf("%s.%s", category, ext))
}

// Lookup returns the source bound to category.
func (r *Registry) Lookup(category logstore.Category) (Source, bool) {
	src, ok := r.Sources[category]
	return src, ok
}

// Close closes every source that holds resources.
func (r *Registry) Close() error {
	var errs []string

	for category, src := range r.Sources {
		if closer, ok := src.(io.Closer); ok {
			utils.Debug("Closing source: %s", category)
			if err := closer.Close(); err != nil {
				msg := fmt.Sprintf("source %s: %v", category, err)
				utils.Error("Error closing %s", msg)
				errs = append(errs, msg)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Newf("encountered errors closing sources: %s", strings.Join(errs, "; "))
	}
	return nil
}
