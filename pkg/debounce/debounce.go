// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package debounce coalesces rapidly changing values into a single delayed
// delivery.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the quiet period used for free-text filter input.
const DefaultQuiet = 300 * time.Millisecond

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock replaces the wall clock. Tests use a ManualClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// Debouncer delivers the most recent value passed to Set once no further
// Set has happened for the quiet period.
//
// # Description
//
// Every Set restarts the timer from zero (last write wins). Exactly one
// delivery happens per quiet period, carrying the final value. Cancel drops
// a pending value without delivering it. Close cancels and disables the
// debouncer; once Close returns, the callback will not be invoked again.
//
// # Thread Safety
//
// All methods are safe for concurrent use. The callback runs on the timer
// goroutine (or inside ManualClock.Advance) without any internal lock held.
// The callback must not call Close on its own debouncer.
type Debouncer[T any] struct {
	mu      sync.Mutex
	clock   Clock
	quiet   time.Duration
	fn      func(T)
	timer   Timer
	seq     uint64
	value   T
	pending bool
	closed  bool
	running sync.WaitGroup
}

// New creates a Debouncer that calls fn with the settled value.
// A non-positive quiet period is replaced with DefaultQuiet.
func New[T any](quiet time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: RealClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer[T]{
		clock: o.clock,
		quiet: quiet,
		fn:    fn,
	}
}

// Quiet returns the configured quiet period.
func (d *Debouncer[T]) Quiet() time.Duration {
	return d.quiet
}

// Set records v as the latest value and restarts the quiet period.
// Set after Close is a no-op.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.value = v
	d.pending = true
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.quiet, func() { d.fire(seq) })
}

// Flush delivers the pending value immediately. It returns false when
// nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.closed || !d.pending {
		d.mu.Unlock()
		return false
	}
	v := d.takeLocked()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(v)
	return true
}

// Cancel drops the pending value, if any. It returns true if a value was
// dropped.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return false
	}
	d.takeLocked()
	return true
}

// Pending reports whether a value is waiting for its quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Close cancels any pending delivery and waits for a callback that is
// already running to return.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.pending {
		d.takeLocked()
	}
	d.mu.Unlock()
	d.running.Wait()
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	// A newer Set, Cancel, Flush or Close supersedes this timer.
	if d.closed || !d.pending || seq != d.seq {
		d.mu.Unlock()
		return
	}
	v := d.takeLocked()
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(v)
}

// takeLocked clears the pending state and returns the value. mu must be held.
func (d *Debouncer[T]) takeLocked() T {
	v := d.value
	var zero T
	d.value = zero
	d.pending = false
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return v
}
