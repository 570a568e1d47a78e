// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package overview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// StatsState is the statistics page state.
type StatsState struct {
	// Stats is the last snapshot received, nil before the first success.
	Stats    *gateway.AggregateStats
	Overview derive.Overview
	Loading  bool
	Err      error
	LoadedAt time.Time
}

// Ready reports whether a snapshot is available.
func (s StatsState) Ready() bool {
	return s.Stats != nil
}

// StatsLoader holds the aggregate statistics.
//
// # Description
//
// Statistics are fetched by Load at startup and by Reload on user action;
// there is no background refresh. A failed fetch sets Err and keeps the
// previous snapshot. When loads overlap, only the latest one is applied.
//
// # Thread Safety
//
// Safe for concurrent use.
type StatsLoader struct {
	gw     gateway.Gateway
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state StatsState
	gen   uint64
}

// NewStatsLoader creates a loader with no snapshot.
func NewStatsLoader(gw gateway.Gateway, logger *slog.Logger) *StatsLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsLoader{
		gw:     gw,
		logger: logger.With("component", "stats"),
		now:    time.Now,
	}
}

// State returns the current state.
func (l *StatsLoader) State() StatsState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches the statistics and returns the resulting state. The returned
// error is the fetch error, also recorded in the state.
func (l *StatsLoader) Load(ctx context.Context) (StatsState, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.state.Loading = true
	l.mu.Unlock()

	stats, err := l.gw.Stats(ctx)
	if err == nil && stats == nil {
		err = &gateway.FetchError{Op: "stats", Err: errors.New("empty response")}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return l.state, err
	}
	l.state.Loading = false
	if err != nil {
		l.state.Err = err
		l.logger.Warn("stats fetch failed", "error", err, "have_snapshot", l.state.Stats != nil)
		return l.state, err
	}
	l.state = StatsState{
		Stats:    stats,
		Overview: derive.NewOverview(*stats),
		LoadedAt: l.now(),
	}
	l.logger.Debug("stats loaded", "total_products", stats.TotalProducts)
	return l.state, nil
}

// Reload fetches the statistics again. It is Load under another name so
// call sites read as user intent.
func (l *StatsLoader) Reload(ctx context.Context) (StatsState, error) {
	l.logger.Info("stats reload requested")
	return l.Load(ctx)
}
