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

//go:build linux

package linuxsource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/coreos/go-systemd/v22/sdjournal"

	"github.com/devpospicha/logcap/internal/utils"
)

// JournaldSource dumps journal entries newer than the saved cursor. The
// journal cannot be erased by an unprivileged reader, so Clear stores the
// cursor of the last dumped entry instead.
type JournaldSource struct {
	matches    []string
	cursorPath string

	mu      sync.Mutex
	cursor  string
	pending string
}

// NewJournaldSource validates the FIELD=value matches and loads the saved cursor.
func NewJournaldSource(matches []string, cursorPath string) (*JournaldSource, error) {
	for _, m := range matches {
		if !strings.Contains(m, "=") {
			return nil, errors.Newf("invalid journal match %q, want FIELD=value", m)
		}
	}
	cursor, err := utils.LoadCursor(cursorPath)
	if err != nil {
		utils.Warn("Failed to read journal cursor %s: %v", cursorPath, err)
	}
	return &JournaldSource{matches: matches, cursorPath: cursorPath, cursor: cursor}, nil
}

func (j *JournaldSource) Name() string {
	return "journald"
}

func (j *JournaldSource) Dump(ctx context.Context, emit func(string) error) error {
	journal, err := sdjournal.NewJournal()
	if err != nil {
		return errors.Wrap(err, "open systemd journal")
	}
	defer journal.Close()

	for _, m := range j.matches {
		if err := journal.AddMatch(m); err != nil {
			return errors.Wrapf(err, "add journal match %s", m)
		}
	}

	j.mu.Lock()
	cursor := j.cursor
	j.mu.Unlock()

	if cursor != "" {
		if err := journal.SeekCursor(cursor); err != nil {
			utils.Warn("Journal cursor rejected, reading from head: %v", err)
			cursor = ""
			if err := journal.SeekHead(); err != nil {
				return errors.Wrap(err, "seek journal head")
			}
		}
	} else if err := journal.SeekHead(); err != nil {
		return errors.Wrap(err, "seek journal head")
	}

	last := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := journal.Next()
		if err != nil {
			return errors.Wrap(err, "read next journal entry")
		}
		if n == 0 {
			break
		}
		// SeekCursor positions on the saved entry itself; it was already dumped.
		if cursor != "" && journal.TestCursor(cursor) == nil {
			continue
		}

		entry, err := journal.GetEntry()
		if err != nil {
			utils.Warn("Failed to get journal entry data: %v. Skipping entry.", err)
			continue
		}
		if err := emit(formatEntry(entry)); err != nil {
			return err
		}
		last = entry.Cursor
	}

	if last != "" {
		j.mu.Lock()
		j.pending = last
		j.mu.Unlock()
	}
	return nil
}

func (j *JournaldSource) Clear(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pending == "" {
		return nil
	}
	if err := utils.SaveCursor(j.cursorPath, j.pending); err != nil {
		return errors.Wrapf(err, "save journal cursor %s", j.cursorPath)
	}
	j.cursor = j.pending
	j.pending = ""
	return nil
}

// formatEntry renders "<time> <identifier>[<pid>]: <message>".
func formatEntry(entry *sdjournal.JournalEntry) string {
	ts := time.Unix(0, int64(entry.RealtimeTimestamp)*int64(time.Microsecond))
	return formatLine(ts, entry.Fields)
}

func formatLine(ts time.Time, fields map[string]string) string {
	ident := fields[sdjournal.SD_JOURNAL_FIELD_SYSLOG_IDENTIFIER]
	if ident == "" {
		ident = fields[sdjournal.SD_JOURNAL_FIELD_COMM]
	}
	if ident == "" {
		ident = "unknown"
	}
	if pid := fields[sdjournal.SD_JOURNAL_FIELD_PID]; pid != "" {
		ident = fmt.Sprintf("%s[%s]", ident, pid)
	}
	return fmt.Sprintf("%s %s: %s", ts.Format(time.RFC3339), ident, sanitizeUTF8(fields[sdjournal.SD_JOURNAL_FIELD_MESSAGE]))
}

// sanitizeUTF8 ensures that the string is valid UTF-8.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
