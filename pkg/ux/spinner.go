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
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// SpinnerType picks one of the bubbles frame sets.
type SpinnerType int

const (
	SpinnerDots SpinnerType = iota
	SpinnerLine
	SpinnerPulse
)

var spinnerStyles = map[SpinnerType]spinner.Spinner{
	SpinnerDots:  spinner.Dot,
	SpinnerLine:  spinner.Line,
	SpinnerPulse: spinner.Pulse,
}

// Spinner shows progress on the error stream while a one-shot command
// waits for the data service. The browser uses the bubbles model directly.
type Spinner struct {
	w      io.Writer
	rich   bool
	styles Styles
	frames spinner.Spinner

	mu      sync.Mutex
	message string
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSpinner creates a stopped spinner. Only rich mode draws anything.
func (p *Printer) NewSpinner(message string) *Spinner {
	return &Spinner{
		w:       p.errOut,
		rich:    p.mode == ModeRich,
		styles:  p.styles,
		frames:  spinner.Dot,
		message: message,
	}
}

// WithType sets the frame set. Call before Start.
func (s *Spinner) WithType(t SpinnerType) *Spinner {
	if f, ok := spinnerStyles[t]; ok {
		s.frames = f
	}
	return s
}

// Start begins drawing. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || !s.rich {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
}

func (s *Spinner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		msg := s.message
		s.mu.Unlock()
		frame := s.frames.Frames[i%len(s.frames.Frames)]
		fmt.Fprintf(s.w, "\r%s %s", s.styles.Highlight.Render(frame), msg)

		select {
		case <-ctx.Done():
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop clears the line and waits for the drawing goroutine to exit. Safe to
// call more than once, and on a spinner that never started.
func (s *Spinner) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// UpdateMessage replaces the text shown next to the frames.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// WithSpinner runs fn while a spinner shows message.
func (p *Printer) WithSpinner(message string, fn func() error) error {
	spin := p.NewSpinner(message)
	spin.Start()
	defer spin.Stop()
	return fn()
}
