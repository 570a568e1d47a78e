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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvAPIURL   = "FOODDATA_API_URL"
	EnvLogLevel = "FOODDATA_LOG_LEVEL"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns ~/.fooddata/fooddata.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".fooddata", "fooddata.yaml"), nil
}

// Load reads the config file at path, creating it with defaults when it does
// not exist. An empty path means DefaultPath.
//
// # Description
//
// Keys missing from the file keep their default value. Environment
// overrides are applied after the file is read, then the result is
// validated.
//
// # Outputs
//
//	FooddataConfig - the effective configuration.
//	bool - true when the file was created by this call.
//	error - unreadable, unparsable or invalid configuration.
func Load(path string) (FooddataConfig, bool, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return FooddataConfig{}, false, err
		}
		path = p
	}

	created := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return FooddataConfig{}, false, err
		}
		created = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FooddataConfig{}, created, fmt.Errorf("failed to read the config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return FooddataConfig{}, created, fmt.Errorf("%s: %w", path, err)
	}
	ApplyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return FooddataConfig{}, created, err
	}
	return cfg, created, nil
}

// Parse decodes YAML on top of DefaultConfig.
func Parse(data []byte) (FooddataConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FooddataConfig{}, fmt.Errorf("failed to parse the config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from the environment. getenv is usually os.Getenv.
func ApplyEnv(cfg *FooddataConfig, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks field formats and ranges.
func (c FooddataConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
