// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package ux renders fooddata output for the terminal.
//
// A Printer writes status lines and reports in one of three modes: rich
// (colours, boxes, bars), plain (same layout, no styling) and machine
// (tab-separated lines for scripts). Report builders return strings so the
// interactive browser can embed them in its own layout.
package ux

import (
	"fmt"
	"io"

	"github.com/AleutianAI/fooddata/pkg/prefs"
)

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Printer writes styled output.
//
// # Thread Safety
//
// Not safe for concurrent use; commands print from one goroutine.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles Styles
}

// NewPrinter creates a Printer writing reports to out and warnings and
// errors to errOut.
func NewPrinter(out, errOut io.Writer, mode Mode, theme prefs.Theme) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		styles: NewStyles(theme, mode),
	}
}

// Mode returns the output mode.
func (p *Printer) Mode() Mode { return p.mode }

// Styles returns the active styles.
func (p *Printer) Styles() Styles { return p.styles }

// Out returns the report writer.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) icon(i Icon) string {
	switch i {
	case IconSuccess:
		return p.styles.Success.Render(string(i))
	case IconWarning:
		return p.styles.Warning.Render(string(i))
	case IconError:
		return p.styles.Error.Render(string(i))
	case IconPending:
		return p.styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a heading. Machine mode prints nothing.
func (p *Printer) Title(text string) {
	if p.mode == ModeMachine {
		return
	}
	fmt.Fprintln(p.out, p.styles.Title.Render(text))
}

// Success prints a success line.
func (p *Printer) Success(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.out, "OK: %s\n", text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.icon(IconSuccess), p.styles.Success.Render(text))
}

// Warning prints a warning line to errOut.
func (p *Printer) Warning(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.errOut, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.errOut, "%s %s\n", p.icon(IconWarning), p.styles.Warning.Render(text))
}

// Error prints an error line to errOut.
func (p *Printer) Error(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintf(p.errOut, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(p.errOut, "%s %s\n", p.icon(IconError), p.styles.Error.Render(text))
}

// Info prints an informational line.
func (p *Printer) Info(text string) {
	if p.mode == ModeMachine {
		fmt.Fprintln(p.out, text)
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.Muted.Render("│"), text)
}

// Muted prints secondary text. Machine mode prints nothing.
func (p *Printer) Muted(text string) {
	if p.mode == ModeMachine {
		return
	}
	fmt.Fprintln(p.out, p.styles.Muted.Render(text))
}

// Print writes a rendered report followed by a newline.
func (p *Printer) Print(report string) {
	fmt.Fprintln(p.out, report)
}

// Box renders text in a titled box.
func (p *Printer) Box(title, content string) string {
	if p.mode == ModeMachine {
		return fmt.Sprintf("%s: %s", title, content)
	}
	return p.styles.Box.Render(p.styles.Title.Render(title) + "\n" + content)
}
