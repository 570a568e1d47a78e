// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package ux

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Mode controls how rich the command output is.
type Mode string

const (
	// ModeRich uses colours, boxes and bars.
	ModeRich Mode = "rich"

	// ModePlain keeps the layout but drops colours and borders.
	ModePlain Mode = "plain"

	// ModeMachine prints tab-separated lines suitable for scripts.
	ModeMachine Mode = "machine"
)

// ParseMode converts a name to a Mode. Unknown names give ModeRich.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "p", "nocolor":
		return ModePlain
	case "machine", "quiet", "q", "tsv":
		return ModeMachine
	default:
		return ModeRich
	}
}

// DetectMode picks the mode for output written to f.
//
// FOODDATA_OUTPUT wins when set. Otherwise a terminal gets ModeRich and
// anything else (pipes, files) gets ModePlain; NO_COLOR also selects
// ModePlain.
func DetectMode(f *os.File) Mode {
	if env := os.Getenv("FOODDATA_OUTPUT"); env != "" {
		return ParseMode(env)
	}
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(f) {
		return ModePlain
	}
	return ModeRich
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
