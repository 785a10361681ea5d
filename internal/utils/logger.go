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

// internal/utils/logger.go
// Process-wide logging facade. Every package logs through these helpers so
// there is a single observability channel.

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.RWMutex
	base   = zap.NewNop()
	sugar  = base.Sugar()
	closer []*os.File
)

// InitLogger configures the global logger.
// Console output goes to stderr so command output on stdout stays clean.
// The app log file receives every enabled entry as JSON and the error log
// file receives ERROR and above. Empty paths disable the matching sink.
func InitLogger(appLogFile, errorLogFile, logLevel string) error {
	level := zapcore.InfoLevel
	if logLevel != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", logLevel)
		}
		level = parsed
	}

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stderr), level),
	}

	var files []*os.File
	if appLogFile != "" {
		f, err := openLogFile(appLogFile)
		if err != nil {
			return err
		}
		files = append(files, f)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(f), level))
	}
	if errorLogFile != "" {
		f, err := openLogFile(errorLogFile)
		if err != nil {
			closeFiles(files)
			return err
		}
		files = append(files, f)
		errorsOnly := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= zapcore.ErrorLevel && level.Enabled(l)
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), zapcore.AddSync(f), errorsOnly))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SetLogger(logger)

	logMu.Lock()
	closeFiles(closer)
	closer = files
	logMu.Unlock()
	return nil
}

// SetLogger swaps the global logger. Tests use it with zaptest/observer loggers.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logMu.Lock()
	base = l
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	logMu.Unlock()
	zap.ReplaceGlobals(l)
}

// L returns the structured logger.
func L() *zap.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return base
}

func s() *zap.SugaredLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return sugar
}

func Debug(format string, args ...any) { s().Debugf(format, args...) }

func Info(format string, args ...any) { s().Infof(format, args...) }

func Warn(format string, args ...any) { s().Warnf(format, args...) }

func Error(format string, args ...any) { s().Errorf(format, args...) }

// Sync flushes buffered entries. Call before the process exits.
func Sync() {
	_ = L().Sync()
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "create log directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return f, nil
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
