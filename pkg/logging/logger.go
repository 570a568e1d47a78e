// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package logging provides structured logging for fooddata.
//
// Logs go to stderr in text form by default. A log directory adds a JSON
// file per day. Quiet mode turns stderr off, which the interactive browser
// needs so that log lines never land on top of the terminal UI:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    LogDir:  "~/.fooddata/logs",
//	    Quiet:   true,
//	})
//	defer logger.Close()
//	slog.SetDefault(logger.Slog())
//
// # Thread Safety
//
// Logger is safe for concurrent use.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// Levels
// =============================================================================

// Level is a slog level. The zero value is LevelInfo.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel reads a level name as used in the config file and the
// FOODDATA_LOG_LEVEL variable. Case is ignored, "warning" means warn and an
// empty string means info.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the Logger. A zero Config writes Info and above to
// stderr as text.
type Config struct {
	Level Level

	// LogDir enables file logging. Files are named "{Service}_{YYYY-MM-DD}.log"
	// and always JSON. "~" is expanded.
	LogDir string

	// Service is attached to every record as "service" and names the file.
	Service string

	// JSON switches the console output to JSON.
	JSON bool

	// Quiet disables console output.
	Quiet bool

	// Output replaces stderr as the console destination.
	Output io.Writer
}

// =============================================================================
// Logger
// =============================================================================

// logFile is the file shared by a logger and everything derived from it.
type logFile struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

// Logger wraps slog.Logger with a console and an optional file destination.
//
// Always Close a logger that writes to a file. Loggers derived with With
// share the file; closing any of them closes it for all.
type Logger struct {
	slog *slog.Logger
	file *logFile
}

// New builds a logger. A log directory that cannot be created disables file
// logging and is reported once on the console.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{Level: config.Level}
	var sinks fanout

	if !config.Quiet {
		out := config.Output
		if out == nil {
			out = os.Stderr
		}
		if config.JSON {
			sinks = append(sinks, slog.NewJSONHandler(out, opts))
		} else {
			sinks = append(sinks, slog.NewTextHandler(out, opts))
		}
	}

	lf := &logFile{}
	var fileErr error
	if config.LogDir != "" {
		lf.f, fileErr = openLogFile(config)
		if lf.f != nil {
			lf.path = lf.f.Name()
			sinks = append(sinks, slog.NewJSONHandler(lf.f, opts))
		}
	}

	var h slog.Handler = slog.DiscardHandler
	switch len(sinks) {
	case 0:
	case 1:
		h = sinks[0]
	default:
		h = sinks
	}
	if config.Service != "" {
		h = h.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}

	l := &Logger{slog: slog.New(h), file: lf}
	if fileErr != nil {
		l.Warn("file logging disabled", "dir", config.LogDir, "error", fileErr)
	}
	return l
}

// Default returns an Info logger on stderr for the "fooddata" service.
func Default() *Logger {
	return New(Config{Service: "fooddata"})
}

func openLogFile(config Config) (*os.File, error) {
	dir := expandHome(config.LogDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	name := config.Service
	if name == "" {
		name = "fooddata"
	}
	name = fmt.Sprintf("%s_%s.log", name, time.Now().Format(time.DateOnly))
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), file: l.file}
}

// Slog returns the underlying slog.Logger, the form every other package
// accepts.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// LogFile returns the path of the log file, or "" when file logging is off.
func (l *Logger) LogFile() string {
	return l.file.path
}

// Close syncs and closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.file.mu.Lock()
	defer l.file.mu.Unlock()
	f := l.file.f
	if f == nil {
		return nil
	}
	l.file.f = nil
	return errors.Join(f.Sync(), f.Close())
}

// =============================================================================
// Handlers
// =============================================================================

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (h fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range h {
		if s.Enabled(ctx, r.Level) {
			errs = append(errs, s.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h fanout) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(h))
	for i, s := range h {
		out[i] = fn(s)
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
