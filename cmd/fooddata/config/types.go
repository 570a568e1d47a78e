// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package config loads the fooddata configuration file.
package config

import (
	"time"

	"github.com/AleutianAI/fooddata/cmd/fooddata/internal/util"
	"github.com/AleutianAI/fooddata/pkg/overview"
	"github.com/AleutianAI/fooddata/pkg/telemetry"
)

// CurrentConfigVersion is written to new config files.
const CurrentConfigVersion = "1"

// FooddataConfig is the content of ~/.fooddata/fooddata.yaml.
type FooddataConfig struct {
	Version string `yaml:"version"`

	// API locates the data service.
	API APIConfig `yaml:"api"`

	// Browse tunes the interactive browser.
	Browse BrowseConfig `yaml:"browse"`

	// Health controls the connectivity indicator.
	Health HealthConfig `yaml:"health"`

	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`

	// Prefs is where the theme preference is stored.
	Prefs PrefsConfig `yaml:"prefs"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	RateLimit float64       `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 = unlimited
	Burst     int           `yaml:"burst" validate:"gte=0"`
}

type BrowseConfig struct {
	Debounce    time.Duration `yaml:"debounce" validate:"gte=0,lte=5s"`
	MetricsAddr string        `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
}

type HealthConfig struct {
	Schedule string        `yaml:"schedule"` // cron spec, e.g. "@every 30s"
	Timeout  time.Duration `yaml:"timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Dir   string `yaml:"dir"`
}

type PrefsConfig struct {
	Path string `yaml:"path"`
}

// Timeouts returns the configured durations with defaults and floors applied.
func (c FooddataConfig) Timeouts() util.TimeoutConfig {
	return util.TimeoutConfig{
		Request:  c.API.Timeout,
		Probe:    c.Health.Timeout,
		Debounce: c.Browse.Debounce,
	}.Validated()
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() FooddataConfig {
	return FooddataConfig{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   util.DefaultRequestTimeout,
			RateLimit: 10,
			Burst:     5,
		},
		Browse: BrowseConfig{
			Debounce: util.DefaultDebounce,
		},
		Health: HealthConfig{
			Schedule: overview.DefaultSchedule,
			Timeout:  util.DefaultProbeTimeout,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.fooddata/logs",
		},
		Telemetry: telemetry.DefaultConfig(),
		Prefs: PrefsConfig{
			Path: "~/.fooddata/prefs",
		},
	}
}
