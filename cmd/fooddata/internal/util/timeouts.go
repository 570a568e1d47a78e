// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package util holds small helpers shared by the fooddata commands.
package util

import "time"

// =============================================================================
// Constants
// =============================================================================

const (
	// MinRequestTimeout is the floor for data service requests.
	MinRequestTimeout = 1 * time.Second

	// MinProbeTimeout is the floor for a single health probe.
	MinProbeTimeout = 500 * time.Millisecond

	// MinDebounce is the shortest accepted quiet period for text filters.
	MinDebounce = 50 * time.Millisecond

	// DefaultRequestTimeout applies when no request timeout is configured.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultProbeTimeout applies when no probe timeout is configured.
	DefaultProbeTimeout = 5 * time.Second

	// DefaultDebounce applies when no quiet period is configured.
	DefaultDebounce = 300 * time.Millisecond
)

// =============================================================================
// TimeoutConfig
// =============================================================================

// TimeoutConfig groups the durations a command needs.
type TimeoutConfig struct {
	Request  time.Duration
	Probe    time.Duration
	Debounce time.Duration
}

// Validated returns a copy with defaults filled in and floors applied.
//
// # Description
//
// Zero or negative values take the default. Positive values below the floor
// are raised to it, so a typo such as "1" milliseconds in the config never
// produces a timeout too short to succeed.
func (c TimeoutConfig) Validated() TimeoutConfig {
	return TimeoutConfig{
		Request:  EnforceMinTimeout(EnforceDefaultTimeout(c.Request, DefaultRequestTimeout), MinRequestTimeout),
		Probe:    EnforceMinTimeout(EnforceDefaultTimeout(c.Probe, DefaultProbeTimeout), MinProbeTimeout),
		Debounce: EnforceMinTimeout(EnforceDefaultTimeout(c.Debounce, DefaultDebounce), MinDebounce),
	}
}

// EnforceMinTimeout returns requested, raised to minimum when below it.
func EnforceMinTimeout(requested, minimum time.Duration) time.Duration {
	if requested <= 0 || requested < minimum {
		return minimum
	}
	return requested
}

// EnforceDefaultTimeout returns def when requested is zero or negative.
func EnforceDefaultTimeout(requested, def time.Duration) time.Duration {
	if requested <= 0 {
		return def
	}
	return requested
}
