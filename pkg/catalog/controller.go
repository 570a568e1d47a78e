// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog implements the product list query controller.
//
// A Controller owns the filter state, the current page and the last product
// page received. It turns filter edits into debounced, paginated gateway
// queries and guarantees that the stored result always belongs to the most
// recently issued query, whatever order responses arrive in.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AleutianAI/fooddata/pkg/debounce"
	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// =============================================================================
// TYPES
// =============================================================================

// Status is the state of the current query cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// PageState is the requested page. PageSize is fixed.
type PageState struct {
	Page     int
	PageSize int
}

// Snapshot is a consistent copy of the controller state.
//
// # Description
//
// Result is the last successful page and is kept when a later fetch fails.
// HasResult is false until the first success. Version increases with every
// state change; observers never receive a lower Version after a higher one.
type Snapshot struct {
	Filters   FilterState
	Page      PageState
	Result    gateway.ProductPage
	HasResult bool
	Status    Status
	Err       error
	Pending   bool
	Version   uint64
}

// TotalPages returns the page count of the displayed result, at least 1.
func (s Snapshot) TotalPages() int {
	if !s.HasResult || s.Result.TotalPages < 1 {
		return 1
	}
	return s.Result.TotalPages
}

// Actionable reports whether pagination controls do anything.
func (s Snapshot) Actionable() bool {
	return s.TotalPages() > 1
}

// Config configures a Controller.
type Config struct {
	// Gateway serves product queries. Required.
	Gateway gateway.Gateway

	// Quiet is the debounce period for free-text filters.
	// Default: debounce.DefaultQuiet.
	Quiet time.Duration

	// Clock drives the debounce timer. Default: debounce.RealClock.
	Clock debounce.Clock

	// Logger receives controller logs. Default: slog.Default().
	Logger *slog.Logger

	// OnChange is called after every state change, outside any lock, in
	// Version order. It must not block and must not call back into the
	// Controller synchronously.
	OnChange func(Snapshot)
}

// ErrNoGateway is returned by New when Config.Gateway is nil.
var ErrNoGateway = errors.New("catalog: gateway is required")

// =============================================================================
// METRICS
// =============================================================================

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fooddata",
			Subsystem: "catalog",
			Name:      "fetches_total",
			Help:      "Product list fetches by outcome (issued, loaded, errored, discarded)",
		},
		[]string{"outcome"},
	)

	fetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "fooddata",
			Subsystem: "catalog",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of product list fetches that were applied",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the product list query controller.
//
// # Description
//
// Text filters (search, brand, category) are stored at once but fetch only
// after the quiet period; grade and minimum quality fetch immediately. Every
// filter change resets the page to 1. Requests are not serialized: each
// fetch gets a generation number and cancels its predecessor, and a response
// is applied only if its generation is still the latest. A failure keeps
// the previous result and sets the error.
//
// # Lifecycle
//
// Create with New, call Start for the initial load, and Close on teardown.
// Close stops the debounce timer and abandons in-flight requests; results
// arriving afterwards are dropped.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Controller struct {
	gw       gateway.Gateway
	logger   *slog.Logger
	onChange func(Snapshot)
	text     *debounce.Debouncer[uint64]

	base context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	filters   FilterState
	page      int
	result    gateway.ProductPage
	hasResult bool
	status    Status
	err       error
	gen       uint64
	inflight  context.CancelFunc
	textSeq   uint64
	issuedSeq uint64
	version   uint64
	closed    bool
	suspended bool
	stale     bool

	notifyMu sync.Mutex
	notified uint64
}

// New creates an idle Controller.
func New(cfg Config) (*Controller, error) {
	if cfg.Gateway == nil {
		return nil, ErrNoGateway
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, stop := context.WithCancel(context.Background())
	c := &Controller{
		gw:       cfg.Gateway,
		logger:   logger.With("component", "catalog"),
		onChange: cfg.OnChange,
		base:     base,
		stop:     stop,
		page:     1,
	}
	c.text = debounce.New(cfg.Quiet, c.settle, debounce.WithClock(cfg.Clock))
	return c, nil
}

// Start issues the initial fetch. The controller closes itself when ctx is
// done.
func (c *Controller) Start(ctx context.Context) {
	context.AfterFunc(ctx, c.Close)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.issueLocked("start")
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// UpdateFilter sets one filter and resets the page to 1.
//
// # Description
//
// Text keys schedule a fetch after the quiet period; grade and minimum
// quality fetch immediately. The new value is visible in Snapshot as soon
// as UpdateFilter returns.
//
// # Outputs
//
//	error - ErrUnknownFilter or ErrInvalidFilterValue. State is unchanged.
func (c *Controller) UpdateFilter(key FilterKey, value string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	next, err := c.filters.with(key, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.filters = next
	c.page = 1

	if key.Debounced() {
		c.textSeq++
		c.text.Set(c.textSeq)
		c.version++
	} else {
		c.issueLocked(string(key))
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// ResetFilters restores the default filters, resets the page to 1 and
// fetches immediately.
func (c *Controller) ResetFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.filters = FilterState{}
	c.page = 1
	c.issueLocked("reset")
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// SetPage fetches page p with the current filters. It does nothing and
// returns false when p is outside [1, TotalPages].
func (c *Controller) SetPage(p int) bool {
	c.mu.Lock()
	if c.closed || p < 1 || p > c.totalPagesLocked() {
		c.mu.Unlock()
		return false
	}
	c.page = p
	c.issueLocked("page")
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// NextPage moves forward one page if possible.
func (c *Controller) NextPage() bool {
	return c.SetPage(c.Snapshot().Page.Page + 1)
}

// PrevPage moves back one page if possible.
func (c *Controller) PrevPage() bool {
	return c.SetPage(c.Snapshot().Page.Page - 1)
}

// Commit fetches pending text filters now instead of waiting for the quiet
// period. It returns false when nothing was pending.
func (c *Controller) Commit() bool {
	return c.text.Flush()
}

// Retry refetches the current query. It is the user-driven retry after an
// error; the controller never retries on its own.
func (c *Controller) Retry() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.issueLocked("retry")
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Suspend parks the controller while its list is not on screen. A pending
// text fetch is dropped and the request in flight is abandoned; filters and
// the last result are kept. Changes made while suspended are recorded but
// fetch only after Resume.
func (c *Controller) Suspend() {
	c.mu.Lock()
	if c.closed || c.suspended {
		c.mu.Unlock()
		return
	}
	c.suspended = true
	if c.textSeq > c.issuedSeq {
		c.stale = true
		c.issuedSeq = c.textSeq
	}
	c.text.Cancel()
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
		c.gen++
		c.stale = true
		fetchesTotal.WithLabelValues("discarded").Inc()
	}
	if c.status == StatusLoading {
		c.status = StatusIdle
		if c.hasResult {
			c.status = StatusLoaded
		}
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Resume undoes Suspend. If work was dropped or deferred while suspended,
// the current query is fetched again and Resume returns true.
func (c *Controller) Resume() bool {
	c.mu.Lock()
	if c.closed || !c.suspended {
		c.mu.Unlock()
		return false
	}
	c.suspended = false
	refetch := c.stale
	c.stale = false
	if refetch {
		c.issueLocked("resume")
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return refetch
}

// Close cancels the debounce timer and abandons in-flight requests. It is
// safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.stop()
	c.mu.Unlock()

	c.text.Close()
}

// settle runs when the text filters have been quiet for the full period.
func (c *Controller) settle(seq uint64) {
	c.mu.Lock()
	// An immediate fetch issued since then already carried this text.
	if c.closed || seq <= c.issuedSeq {
		c.mu.Unlock()
		return
	}
	c.issueLocked("text")
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// issueLocked starts a fetch for the current filters and page, superseding
// any fetch in flight. While suspended it only marks the list stale. mu must
// be held.
func (c *Controller) issueLocked(reason string) {
	if c.suspended {
		c.stale = true
		c.issuedSeq = c.textSeq
		c.text.Cancel()
		c.version++
		return
	}
	c.gen++
	gen := c.gen

	if c.inflight != nil {
		c.inflight()
	}
	ctx, cancel := context.WithCancel(c.base)
	c.inflight = cancel

	// The query includes the current text, so a pending debounce is moot.
	c.issuedSeq = c.textSeq
	c.text.Cancel()

	q := c.queryLocked()
	c.status = StatusLoading
	c.version++

	fetchesTotal.WithLabelValues("issued").Inc()
	c.logger.Debug("fetch issued", "gen", gen, "reason", reason, "page", q.Page, "search", q.Search)

	go c.run(ctx, cancel, gen, q)
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, gen uint64, q gateway.ProductQuery) {
	defer cancel()

	start := time.Now()
	page, err := c.gw.Products(ctx, q)
	if err == nil && page == nil {
		err = &gateway.FetchError{Op: "products", Err: errors.New("empty response")}
	}

	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		fetchesTotal.WithLabelValues("discarded").Inc()
		c.logger.Debug("stale response discarded", "gen", gen, "page", q.Page)
		return
	}
	c.inflight = nil
	if err != nil {
		c.status = StatusErrored
		c.err = err
		fetchesTotal.WithLabelValues("errored").Inc()
		c.logger.Warn("product fetch failed", "gen", gen, "page", q.Page, "error", err)
	} else {
		c.result = page.Normalize()
		c.hasResult = true
		c.status = StatusLoaded
		c.err = nil
		fetchesTotal.WithLabelValues("loaded").Inc()
		fetchLatency.Observe(time.Since(start).Seconds())
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// notify delivers snap unless a newer snapshot was already delivered.
func (c *Controller) notify(snap Snapshot) {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.Version <= c.notified {
		return
	}
	c.notified = snap.Version
	c.onChange(snap)
}

func (c *Controller) queryLocked() gateway.ProductQuery {
	return c.filters.Query(c.page)
}

func (c *Controller) totalPagesLocked() int {
	if !c.hasResult || c.result.TotalPages < 1 {
		return 1
	}
	return c.result.TotalPages
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Filters:   c.filters,
		Page:      PageState{Page: c.page, PageSize: gateway.DefaultPageSize},
		Result:    c.result,
		HasResult: c.hasResult,
		Status:    c.status,
		Err:       c.err,
		Pending:   c.text.Pending(),
		Version:   c.version,
	}
}

// String summarises the state for logs.
func (s Snapshot) String() string {
	return fmt.Sprintf("page %d/%d, %d items, %s", s.Page.Page, s.TotalPages(), len(s.Result.Items), s.Status)
}
