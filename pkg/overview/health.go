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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// Health is the connectivity indicator.
type Health int

const (
	HealthUnknown Health = iota
	HealthUp
	HealthDown
)

func (h Health) String() string {
	switch h {
	case HealthUp:
		return "online"
	case HealthDown:
		return "offline"
	default:
		return "checking"
	}
}

const (
	// DefaultSchedule re-probes every 30 seconds.
	DefaultSchedule = "@every 30s"

	// DefaultProbeTimeout bounds a single probe.
	DefaultProbeTimeout = 5 * time.Second
)

// HealthConfig configures a HealthMonitor.
type HealthConfig struct {
	// Schedule is a cron spec for re-probing. Empty disables re-probing.
	Schedule string

	// Timeout bounds each probe. Default: DefaultProbeTimeout.
	Timeout time.Duration

	Logger *slog.Logger

	// OnChange is called when the indicator changes value.
	OnChange func(Health)
}

// HealthMonitor tracks whether the data service answers.
//
// # Description
//
// The indicator starts unknown. Start probes once and, when a schedule is
// set, re-probes on it; a probe still running when the next one is due is
// skipped. Probes use their own context, so a slow or failing probe never
// holds up other requests.
//
// # Thread Safety
//
// Safe for concurrent use.
type HealthMonitor struct {
	gw      gateway.Gateway
	cfg     HealthConfig
	logger  *slog.Logger
	base    context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	status  Health
	checked time.Time
	cron    *cron.Cron
}

// NewHealthMonitor creates a monitor in the unknown state.
func NewHealthMonitor(gw gateway.Gateway, cfg HealthConfig) *HealthMonitor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultProbeTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base, cancel := context.WithCancel(context.Background())
	return &HealthMonitor{
		gw:     gw,
		cfg:    cfg,
		logger: logger.With("component", "health"),
		base:   base,
		cancel: cancel,
	}
}

// Status returns the indicator and when it was last probed.
func (m *HealthMonitor) Status() (Health, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status, m.checked
}

// Probe checks the service once and updates the indicator.
func (m *HealthMonitor) Probe(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	next := HealthUp
	if err := m.gw.Health(ctx); err != nil {
		next = HealthDown
		m.logger.Debug("health probe failed", "error", err)
	}

	m.mu.Lock()
	if m.base.Err() != nil {
		m.mu.Unlock()
		return next
	}
	prev := m.status
	m.status = next
	m.checked = time.Now()
	m.mu.Unlock()

	if prev != next {
		m.logger.Info("service health changed", "from", prev.String(), "to", next.String())
		if m.cfg.OnChange != nil {
			m.cfg.OnChange(next)
		}
	}
	return next
}

// Start runs the initial probe in the background and schedules re-probes.
//
// # Outputs
//
//	error - the schedule could not be parsed. No probe is started.
func (m *HealthMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cron != nil {
		return fmt.Errorf("health monitor already started")
	}

	c := cron.New(
		cron.WithLogger(cronLogger{m.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{m.logger})),
	)
	if m.cfg.Schedule != "" {
		if _, err := c.AddFunc(m.cfg.Schedule, func() { m.Probe(m.base) }); err != nil {
			return fmt.Errorf("invalid health schedule %q: %w", m.cfg.Schedule, err)
		}
	}
	m.cron = c
	c.Start()

	go m.Probe(m.base)
	return nil
}

// Stop cancels scheduled and running probes and waits for the scheduler to
// finish. The indicator keeps its last value.
func (m *HealthMonitor) Stop() {
	m.cancel()

	m.mu.Lock()
	c := m.cron
	m.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// cronLogger routes scheduler logs through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
