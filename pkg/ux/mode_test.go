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
	"testing"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/prefs"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":        ModeRich,
		"rich":    ModeRich,
		"PLAIN":   ModePlain,
		"nocolor": ModePlain,
		"machine": ModeMachine,
		"tsv":     ModeMachine,
		"fancy":   ModeRich,
	}
	for in, want := range tests {
		if got := ParseMode(in); got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDetectMode(t *testing.T) {
	t.Setenv("FOODDATA_OUTPUT", "machine")
	if got := DetectMode(os.Stdout); got != ModeMachine {
		t.Errorf("env override: got %v", got)
	}

	t.Setenv("FOODDATA_OUTPUT", "")
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := DetectMode(f); got != ModePlain {
		t.Errorf("regular file: got %v, want plain", got)
	}
	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
}

func TestPaletteFor(t *testing.T) {
	if PaletteFor(prefs.ThemeDark) == PaletteFor(prefs.ThemeLight) {
		t.Error("light and dark palettes should differ")
	}
	if PaletteFor("") != PaletteFor(prefs.ThemeLight) {
		t.Error("unknown theme should fall back to light")
	}
}

func TestStyles_Plain(t *testing.T) {
	s := NewStyles(prefs.ThemeDark, ModePlain)
	if got := s.Grade(gateway.GradeB); got != "[B]" {
		t.Errorf("Grade() = %q", got)
	}
	if got := s.Grade(gateway.GradeNone); got != "[?]" {
		t.Errorf("Grade(none) = %q", got)
	}
	if got := s.Bar(50, 10, "#000000"); got != "█████░░░░░" {
		t.Errorf("Bar(50) = %q", got)
	}
	if got := s.Bar(150, 4, ""); got != "████" {
		t.Errorf("Bar(150) = %q", got)
	}
	if got := s.Bar(-5, 3, ""); got != "░░░" {
		t.Errorf("Bar(-5) = %q", got)
	}
	if got := s.Tier(derive.TierHigh, "97"); got != "97" {
		t.Errorf("Tier() = %q", got)
	}
}
