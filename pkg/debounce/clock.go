// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package debounce

import (
	"sort"
	"sync"
	"time"
)

// Timer is a cancellable one-shot timer.
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is a Clock backed by time.AfterFunc.
type RealClock struct{}

// AfterFunc implements Clock.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock whose time only moves when Advance is called.
//
// Callbacks run synchronously inside Advance, in deadline order, on the
// calling goroutine. The clock's lock is never held while a callback runs,
// so callbacks may schedule new timers.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Duration
	seq      uint64
	f        func()
	done     bool
}

// NewManualClock returns a ManualClock at offset zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc implements Clock.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, deadline: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the elapsed manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing every timer whose deadline is
// reached, including timers scheduled by callbacks during the advance.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		if next.deadline > c.now {
			c.now = next.deadline
		}
		c.mu.Unlock()

		next.f()
	}
}

func (c *ManualClock) nextDueLocked(target time.Duration) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline != c.timers[j].deadline {
			return c.timers[i].deadline < c.timers[j].deadline
		}
		return c.timers[i].seq < c.timers[j].seq
	})
	if len(c.timers) == 0 || c.timers[0].deadline > target {
		return nil
	}
	return c.timers[0]
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
