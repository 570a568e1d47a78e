// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package detail loads the full record of one selected product.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// State is what the detail panel shows.
//
// Open is true between Open and Close. Loading, Data and Err describe the
// single fetch for ID; NotFound is set when the service has no such product.
type State struct {
	ID       int64
	Open     bool
	Loading  bool
	Data     *gateway.ProductDetail
	Err      error
	NotFound bool
}

// Failed reports whether the fetch ended without data.
func (s State) Failed() bool {
	return s.Err != nil
}

// Lookup fetches product details for the selection.
//
// # Description
//
// Each Open issues exactly one fetch. Opening another product, or closing
// the panel, supersedes the previous fetch: its context is cancelled and any
// response it still produces is dropped. Nothing is cached between opens.
//
// # Thread Safety
//
// Safe for concurrent use. OnChange runs outside the lock.
type Lookup struct {
	gw       gateway.Gateway
	logger   *slog.Logger
	onChange func(State)

	mu       sync.Mutex
	state    State
	gen      uint64
	version  uint64
	inflight context.CancelFunc

	notifyMu sync.Mutex
	notified uint64
}

// NewLookup creates a closed Lookup. onChange may be nil.
func NewLookup(gw gateway.Gateway, logger *slog.Logger, onChange func(State)) *Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{
		gw:       gw,
		logger:   logger.With("component", "detail"),
		onChange: onChange,
	}
}

// State returns the current panel state.
func (l *Lookup) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Open shows the panel for id and starts loading it. It returns a channel
// closed when that fetch settles or is superseded.
func (l *Lookup) Open(ctx context.Context, id int64) <-chan struct{} {
	done := make(chan struct{})

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.cancelLocked()
	ctx, cancel := context.WithCancel(ctx)
	l.inflight = cancel
	l.state = State{ID: id, Open: true, Loading: true}
	l.version++
	st, v := l.state, l.version
	l.mu.Unlock()

	l.emit(st, v)
	go l.fetch(ctx, cancel, gen, id, done)
	return done
}

// Close hides the panel, discards its data and abandons any fetch.
func (l *Lookup) Close() {
	l.mu.Lock()
	if !l.state.Open && l.inflight == nil {
		l.mu.Unlock()
		return
	}
	l.gen++
	l.cancelLocked()
	l.state = State{}
	l.version++
	st, v := l.state, l.version
	l.mu.Unlock()

	l.emit(st, v)
}

func (l *Lookup) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, id int64, done chan struct{}) {
	defer close(done)
	defer cancel()

	p, err := l.gw.Product(ctx, id)
	if err == nil && p == nil {
		err = gateway.ErrNotFound
	}

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.logger.Debug("stale detail dropped", "id", id)
		return
	}
	l.inflight = nil
	l.state.Loading = false
	switch {
	case err == nil:
		l.state.Data = p
	case errors.Is(err, gateway.ErrNotFound):
		l.state.Err = err
		l.state.NotFound = true
	default:
		l.state.Err = err
		l.logger.Warn("product detail failed", "id", id, "error", err)
	}
	l.version++
	st, v := l.state, l.version
	l.mu.Unlock()

	l.emit(st, v)
}

func (l *Lookup) cancelLocked() {
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
}

// emit delivers st unless a later state was already delivered.
func (l *Lookup) emit(st State, v uint64) {
	if l.onChange == nil {
		return
	}
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	if v <= l.notified {
		return
	}
	l.notified = v
	l.onChange(st)
}
