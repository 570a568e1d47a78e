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
	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/prefs"
)

// Palette is the set of colours of one theme.
type Palette struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Track   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	paletteLight = Palette{
		Accent:  lipgloss.Color("#157483"),
		Text:    lipgloss.Color("#1C1917"),
		Muted:   lipgloss.Color("#78716C"),
		Border:  lipgloss.Color("#16858E"),
		Track:   lipgloss.Color("#E7E5E4"),
		Success: lipgloss.Color("#038141"),
		Warning: lipgloss.Color("#B45309"),
		Error:   lipgloss.Color("#B91C1C"),
	}

	paletteDark = Palette{
		Accent:  lipgloss.Color("#2CD7C7"),
		Text:    lipgloss.Color("#E7E5E4"),
		Muted:   lipgloss.Color("#2C4A54"),
		Border:  lipgloss.Color("#1D9DA0"),
		Track:   lipgloss.Color("#104855"),
		Success: lipgloss.Color("#2CD7C7"),
		Warning: lipgloss.Color("#F4D03F"),
		Error:   lipgloss.Color("#E74C3C"),
	}
)

// PaletteFor returns the palette of theme t.
func PaletteFor(t prefs.Theme) Palette {
	if t == prefs.ThemeDark {
		return paletteDark
	}
	return paletteLight
}

// Styles are the lipgloss styles of one theme and mode.
type Styles struct {
	Palette Palette
	Plain   bool

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style

	Box      lipgloss.Style
	ErrorBox lipgloss.Style
}

// NewStyles builds the styles for theme t. In plain mode every style renders
// its text unchanged apart from padding.
func NewStyles(t prefs.Theme, mode Mode) Styles {
	if mode != ModeRich {
		plain := lipgloss.NewStyle()
		return Styles{
			Palette: PaletteFor(t), Plain: true,
			Title: plain, Subtitle: plain, Bold: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain, Highlight: plain,
			Selected: plain,
			Box:      plain,
			ErrorBox: plain,
		}
	}

	p := PaletteFor(t)
	return Styles{
		Palette:   p,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle:  lipgloss.NewStyle().Foreground(p.Accent),
		Bold:      lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Muted:     lipgloss.NewStyle().Foreground(p.Muted),
		Success:   lipgloss.NewStyle().Foreground(p.Success),
		Warning:   lipgloss.NewStyle().Foreground(p.Warning),
		Error:     lipgloss.NewStyle().Foreground(p.Error),
		Highlight: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Reverse(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		ErrorBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Padding(0, 1),
	}
}

// Grade renders a grade letter as a coloured badge.
func (s Styles) Grade(g gateway.Grade) string {
	if s.Plain {
		return "[" + g.Upper() + "]"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(derive.GradeColor(g))).
		Padding(0, 1).
		Render(g.Upper())
}

// Tier colours text by score tier.
func (s Styles) Tier(t derive.Tier, text string) string {
	switch t {
	case derive.TierHigh:
		return s.Success.Render(text)
	case derive.TierMid:
		return s.Warning.Render(text)
	default:
		return s.Error.Render(text)
	}
}

// Bar renders a horizontal bar filled to pct percent of width cells.
func (s Styles) Bar(pct float64, width int, color string) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	full := repeatChar('█', filled)
	empty := repeatChar('░', width-filled)
	if s.Plain {
		return full + empty
	}
	fill := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	track := lipgloss.NewStyle().Foreground(s.Palette.Track)
	return fill.Render(full) + track.Render(empty)
}

func repeatChar(c rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = c
	}
	return string(result)
}
