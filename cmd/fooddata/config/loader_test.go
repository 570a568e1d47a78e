// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/fooddata/cmd/fooddata/internal/util"
)

func TestLoad_CreatesDefault(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), ".fooddata", "fooddata.yaml")

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultConfig().API, cfg.API)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk FooddataConfig
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Equal(t, CurrentConfigVersion, onDisk.Version)
	assert.Equal(t, "http://localhost:8000", onDisk.API.BaseURL)
	assert.Equal(t, util.DefaultDebounce, onDisk.Browse.Debounce)

	_, created, err = Load(path)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "fooddata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://food.example.com
  timeout: 30s
browse:
  debounce: 500ms
logging:
  level: debug
`), 0o644))

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "https://food.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Browse.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultConfig().Health, cfg.Health)
	assert.Equal(t, 5, cfg.API.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://10.0.0.5:9000")
	t.Setenv(EnvLogLevel, "WARN")
	path := filepath.Join(t.TempDir(), "fooddata.yaml")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvLogLevel, "")
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("api: [oops"), 0o644))
	_, _, err := Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("api:\n  base_url: not a url\n"), 0o644))
	_, _, err = Load(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FooddataConfig)
		field  string
	}{
		{"missing url", func(c *FooddataConfig) { c.API.BaseURL = "" }, "BaseURL"},
		{"negative rate", func(c *FooddataConfig) { c.API.RateLimit = -1 }, "RateLimit"},
		{"debounce too long", func(c *FooddataConfig) { c.Browse.Debounce = 10 * time.Second }, "Debounce"},
		{"bad metrics addr", func(c *FooddataConfig) { c.Browse.MetricsAddr = "nope" }, "MetricsAddr"},
		{"unknown level", func(c *FooddataConfig) { c.Logging.Level = "loud" }, "Level"},
		{"unknown exporter", func(c *FooddataConfig) { c.Telemetry.TraceExporter = "zipkin" }, "TraceExporter"},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestApplyEnv_Blank(t *testing.T) {
	cfg := DefaultConfig()
	ApplyEnv(&cfg, func(string) string { return "  " })
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = 0
	cfg.Browse.Debounce = time.Millisecond
	got := cfg.Timeouts()
	assert.Equal(t, util.DefaultRequestTimeout, got.Request)
	assert.Equal(t, util.MinDebounce, got.Debounce)
	assert.Equal(t, util.DefaultProbeTimeout, got.Probe)
}
