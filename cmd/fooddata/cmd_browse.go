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
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/fooddata/pkg/catalog"
	"github.com/AleutianAI/fooddata/pkg/detail"
	"github.com/AleutianAI/fooddata/pkg/overview"
	"github.com/AleutianAI/fooddata/pkg/prefs"
	"github.com/AleutianAI/fooddata/pkg/telemetry"
	"github.com/AleutianAI/fooddata/pkg/tui"
	"github.com/AleutianAI/fooddata/pkg/ux"
)

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		Long: `Browse opens a full-screen view with the statistics overview and a
filterable product list. Logs go to the log file while it runs.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")

	cmd.RunE = withApp(flags, true, func(ctx context.Context, app *App, _ []string) error {
		if metricsAddr == "" {
			metricsAddr = app.Config.Browse.MetricsAddr
		}
		return runBrowse(ctx, app, metricsAddr)
	})
	return cmd
}

func runBrowse(ctx context.Context, app *App, metricsAddr string) error {
	if !ux.IsTerminal(os.Stdin) || !ux.IsTerminal(os.Stdout) {
		return errors.New("browse needs an interactive terminal; use stats or products instead")
	}
	logger := app.Logger.Slog()

	if metricsAddr != "" {
		stop, err := serveMetrics(metricsAddr, app)
		if err != nil {
			return err
		}
		defer stop()
	}

	events := tui.NewEvents()
	defer events.Close()

	ctrl, err := catalog.New(catalog.Config{
		Gateway:  app.Gateway,
		Quiet:    app.Timeouts().Debounce,
		Logger:   logger,
		OnChange: events.CatalogChanged,
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	lookup := detail.NewLookup(app.Gateway, logger, events.DetailChanged)
	defer lookup.Close()

	health := overview.NewHealthMonitor(app.Gateway, overview.HealthConfig{
		Schedule: app.Config.Health.Schedule,
		Timeout:  app.Timeouts().Probe,
		Logger:   logger,
		OnChange: events.HealthChanged,
	})
	if err := health.Start(); err != nil {
		return err
	}
	defer health.Stop()

	var store *prefs.Store
	if s, err := app.Prefs(); err == nil {
		store = s
	} else {
		logger.Warn("theme changes will not be saved", "error", err)
	}

	model := tui.New(ctx, tui.Deps{
		Catalog: ctrl,
		Detail:  lookup,
		Stats:   overview.NewStatsLoader(app.Gateway, logger),
		Health:  health,
		Prefs:   store,
		Events:  events,
		Theme:   app.Theme,
		Logger:  logger,
	})

	app.Logger.Info("browser started", "api", app.Gateway.BaseURL(), "log_file", app.Logger.LogFile())
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// serveMetrics exposes /metrics until the returned stop function is called.
func serveMetrics(addr string, app *App) (func(), error) {
	handler := telemetry.MetricsHandler()
	if handler == nil {
		handler = promhttp.Handler()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// Surface bind errors before the terminal switches to the alt screen.
	select {
	case err, ok := <-errc:
		if ok {
			return nil, fmt.Errorf("metrics server: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
	}
	app.Logger.Info("serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			app.Logger.Warn("metrics server shutdown", "error", err)
		}
	}, nil
}
