// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package prefs persists user interface preferences in BadgerDB.
//
// The theme is the only durable state of the dashboard; everything else is
// fetched from the data service on demand.
package prefs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Theme is the colour theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used until a theme is stored.
const DefaultTheme = ThemeLight

// ErrInvalidTheme is returned for names other than light and dark.
var ErrInvalidTheme = fmt.Errorf("theme must be %q or %q", ThemeLight, ThemeDark)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidTheme, s)
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

var keyTheme = []byte("prefs/theme")

// Config configures the store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in memory. Useful for testing.
	InMemory bool

	// Logger receives BadgerDB logs. If nil, they are discarded.
	Logger *slog.Logger
}

// Store reads and writes preferences.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB serializes transactions.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent preferences")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create preferences directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway store.
func OpenInMemory() (*Store, error) {
	return Open(Config{InMemory: true})
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Theme returns the stored theme, or DefaultTheme when none is stored or
// the stored value is unreadable.
func (s *Store) Theme() (Theme, error) {
	var raw string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyTheme)
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			raw = string(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return DefaultTheme, nil
	}
	if err != nil {
		return DefaultTheme, fmt.Errorf("read theme: %w", err)
	}
	t, perr := ParseTheme(raw)
	if perr != nil {
		return DefaultTheme, nil
	}
	return t, nil
}

// SetTheme stores t.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyTheme, []byte(t))
	})
	if err != nil {
		return fmt.Errorf("write theme: %w", err)
	}
	return nil
}

// Toggle switches between light and dark and returns the new theme.
func (s *Store) Toggle() (Theme, error) {
	var next Theme
	err := s.db.Update(func(txn *badger.Txn) error {
		cur := DefaultTheme
		item, err := txn.Get(keyTheme)
		switch {
		case err == nil:
			if verr := item.Value(func(v []byte) error {
				if t, perr := ParseTheme(string(v)); perr == nil {
					cur = t
				}
				return nil
			}); verr != nil {
				return verr
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		next = cur.Other()
		return txn.Set(keyTheme, []byte(next))
	})
	if err != nil {
		return "", fmt.Errorf("toggle theme: %w", err)
	}
	return next, nil
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
