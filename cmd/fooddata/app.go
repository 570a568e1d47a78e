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
	"io"
	"os"
	"time"

	"github.com/AleutianAI/fooddata/cmd/fooddata/config"
	"github.com/AleutianAI/fooddata/cmd/fooddata/internal/util"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/logging"
	"github.com/AleutianAI/fooddata/pkg/prefs"
	"github.com/AleutianAI/fooddata/pkg/telemetry"
	"github.com/AleutianAI/fooddata/pkg/ux"
)

// appOptions are the inputs NewApp needs from the command line.
type appOptions struct {
	ConfigPath string
	APIURL     string
	Verbose    bool
	JSON       bool

	// Interactive keeps log records off the terminal. They still go to the
	// log file.
	Interactive bool

	Out    io.Writer
	ErrOut io.Writer
}

// App holds everything a command needs for one invocation.
//
// # Description
//
// Built once per command by NewApp and released by Close. There is no
// package-level state: tests build as many Apps as they like.
type App struct {
	Config  config.FooddataConfig
	Logger  *logging.Logger
	Gateway *gateway.HTTPGateway
	Printer *ux.Printer
	Theme   prefs.Theme
	JSON    bool

	out               io.Writer
	prefs             *prefs.Store
	shutdownTelemetry func(context.Context) error
}

// NewApp loads the configuration and builds the logger, telemetry, gateway
// and printer.
func NewApp(ctx context.Context, opts appOptions) (*App, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	cfg, created, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  util.ExpandHome(cfg.Logging.Dir),
		Service: "fooddata",
		Quiet:   opts.Interactive,
		Output:  opts.ErrOut,
	})
	if created {
		logger.Info("created default config", "api", cfg.API.BaseURL)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		JSON:   opts.JSON,
		out:    opts.Out,
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}
	a.shutdownTelemetry = shutdown

	timeouts := cfg.Timeouts()
	gw, err := gateway.NewHTTPGateway(gateway.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   timeouts.Request,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		UserAgent: "fooddata-cli/" + version,
		Logger:    logger.Slog(),
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("configure data service: %w", err)
	}
	a.Gateway = gw

	a.Theme = a.loadTheme()
	f, _ := opts.Out.(*os.File)
	a.Printer = ux.NewPrinter(opts.Out, opts.ErrOut, ux.DetectMode(f), a.Theme)
	return a, nil
}

// Prefs opens the preference store on first use.
func (a *App) Prefs() (*prefs.Store, error) {
	if a.prefs != nil {
		return a.prefs, nil
	}
	store, err := prefs.Open(prefs.Config{
		Path:   util.ExpandHome(a.Config.Prefs.Path),
		Logger: a.Logger.Slog(),
	})
	if err != nil {
		return nil, err
	}
	a.prefs = store
	return store, nil
}

// loadTheme reads the saved theme. The store is locked while another
// fooddata process has it open; the default theme is used then.
func (a *App) loadTheme() prefs.Theme {
	store, err := a.Prefs()
	if err != nil {
		a.Logger.Debug("preferences unavailable", "error", err)
		return prefs.DefaultTheme
	}
	theme, err := store.Theme()
	if err != nil {
		a.Logger.Debug("could not read theme", "error", err)
	}
	return theme
}

// Timeouts returns the validated durations from the config.
func (a *App) Timeouts() util.TimeoutConfig {
	return a.Config.Timeouts()
}

// Out is where command results are written.
func (a *App) Out() io.Writer {
	return a.out
}

// Close flushes telemetry and releases the preference store and log file.
// Safe to call more than once.
func (a *App) Close() error {
	var errs []error
	if a.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, a.shutdownTelemetry(ctx))
		cancel()
		a.shutdownTelemetry = nil
	}
	if a.prefs != nil {
		errs = append(errs, a.prefs.Close())
		a.prefs = nil
	}
	if a.Logger != nil {
		errs = append(errs, a.Logger.Close())
	}
	return errors.Join(errs...)
}
