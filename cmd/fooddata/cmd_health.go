// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fooddata/pkg/overview"
)

// ErrServiceOffline is returned by the health command when the probe fails,
// so scripts can rely on the exit status.
var ErrServiceOffline = errors.New("data service is offline")

type healthOutput struct {
	Status    string    `json:"status"`
	API       string    `json:"api"`
	CheckedAt time.Time `json:"checked_at"`
}

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// newHealthCmd builds the health command.
//
// # Description
//
// Probes the data service root once and prints the indicator. With --watch
// it keeps probing on the configured cron schedule and prints a line each
// time the indicator changes, until interrupted.
//
// # Examples
//
//	fooddata health
//	fooddata health --watch
//	fooddata health --watch --schedule "@every 5s"
func newHealthCmd(flags *rootFlags) *cobra.Command {
	var (
		watch    bool
		schedule string
	)
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the data service is reachable",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep probing and report changes")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule for --watch (default from config)")

	cmd.RunE = withApp(flags, false, func(ctx context.Context, app *App, _ []string) error {
		if schedule == "" {
			schedule = app.Config.Health.Schedule
		}
		if watch {
			return watchHealth(ctx, app, schedule)
		}
		return probeHealth(ctx, app)
	})
	return cmd
}

// =============================================================================
// IMPLEMENTATION
// =============================================================================

func probeHealth(ctx context.Context, app *App) error {
	monitor := overview.NewHealthMonitor(app.Gateway, overview.HealthConfig{
		Timeout: app.Timeouts().Probe,
		Logger:  app.Logger.Slog(),
	})
	h := monitor.Probe(ctx)
	_, checked := monitor.Status()

	if app.JSON {
		if err := writeJSON(app.Out(), healthOutput{Status: h.String(), API: app.Gateway.BaseURL(), CheckedAt: checked}); err != nil {
			return err
		}
	} else {
		app.Printer.Print(fmt.Sprintf("%s  %s", app.Printer.RenderHealth(h), app.Gateway.BaseURL()))
	}
	if h != overview.HealthUp {
		return ErrServiceOffline
	}
	return nil
}

func watchHealth(ctx context.Context, app *App, schedule string) error {
	var mu sync.Mutex
	report := func(h overview.Health) {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if app.JSON {
			_ = writeJSON(app.Out(), healthOutput{Status: h.String(), API: app.Gateway.BaseURL(), CheckedAt: now})
			return
		}
		app.Printer.Print(fmt.Sprintf("%s  %s", now.Format(time.TimeOnly), app.Printer.RenderHealth(h)))
	}

	monitor := overview.NewHealthMonitor(app.Gateway, overview.HealthConfig{
		Schedule: schedule,
		Timeout:  app.Timeouts().Probe,
		Logger:   app.Logger.Slog(),
		OnChange: report,
	})
	if err := monitor.Start(); err != nil {
		return err
	}
	defer monitor.Stop()

	if !app.JSON {
		app.Printer.Muted(fmt.Sprintf("watching %s (%s), Ctrl+C to stop", app.Gateway.BaseURL(), schedule))
	}
	<-ctx.Done()
	return nil
}
