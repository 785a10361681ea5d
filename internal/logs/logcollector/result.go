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

// internal/logs/logcollector/result.go

package logcollector

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devpospicha/logcap/internal/logstore"
	"github.com/devpospicha/logcap/internal/publish"
	"github.com/devpospicha/logcap/internal/utils"
)

// State is a step of a capture. A capture moves
// Idle -> Dumping -> Writing -> Clearing -> Completed and stops early in the
// state where a fatal error happened.
type State int

const (
	StateIdle State = iota
	StateDumping
	StateWriting
	StateClearing
	StateCompleted
)

var stateNames = [...]string{"idle", "dumping", "writing", "clearing", "completed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result describes one finished capture. Err is set when the capture did
// not reach Completed; State then names the step that failed. A failed
// Clear does not fail the capture and is reported in ClearErr.
type Result struct {
	Category logstore.Category
	Path     string
	State    State
	Lines    int
	Bytes    int64
	Err      error
	ClearErr error
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the file was written and the buffer clear was attempted.
func (r Result) OK() bool {
	return r.Err == nil && r.State == StateCompleted
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category logstore.Category `json:"category"`
		Path     string            `json:"path"`
		State    State             `json:"state"`
		OK       bool              `json:"ok"`
		Lines    int               `json:"lines"`
		Bytes    int64             `json:"bytes"`
		Error    string            `json:"error,omitempty"`
		ClearErr string            `json:"clear_error,omitempty"`
		Started  time.Time         `json:"started"`
		Duration string            `json:"duration"`
	}{
		Category: r.Category,
		Path:     r.Path,
		State:    r.State,
		OK:       r.OK(),
		Lines:    r.Lines,
		Bytes:    r.Bytes,
		Error:    utils.ErrMsg(r.Err),
		ClearErr: utils.ErrMsg(r.ClearErr),
		Started:  r.Started,
		Duration: r.Duration.String(),
	})
}

// Callback receives the handles of every registered category and the
// outcome of the capture. It is invoked exactly once per accepted Collect.
type Callback func(handles []publish.Handle, result Result)
