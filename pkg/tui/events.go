// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AleutianAI/fooddata/pkg/catalog"
	"github.com/AleutianAI/fooddata/pkg/detail"
	"github.com/AleutianAI/fooddata/pkg/overview"
)

// Change notifications. They carry no state: the model reads the latest
// state from the source when it handles them.
type (
	catalogChangedMsg struct{}
	detailChangedMsg  struct{}
	healthChangedMsg  struct{}
)

// Events bridges controller callbacks into the bubbletea loop.
//
// # Description
//
// Callbacks never block: each source has a one-slot channel, and a
// notification arriving while one is already queued is merged with it.
// Since the model reads current state on receipt, nothing is lost.
//
// # Thread Safety
//
// Callback methods are safe to call from any goroutine.
type Events struct {
	catalog chan struct{}
	detail  chan struct{}
	health  chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewEvents creates an open bridge.
func NewEvents() *Events {
	return &Events{
		catalog: make(chan struct{}, 1),
		detail:  make(chan struct{}, 1),
		health:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// CatalogChanged is a catalog.Config.OnChange callback.
func (e *Events) CatalogChanged(catalog.Snapshot) { signal(e.catalog) }

// DetailChanged is a detail.Lookup callback.
func (e *Events) DetailChanged(detail.State) { signal(e.detail) }

// HealthChanged is an overview.HealthConfig.OnChange callback.
func (e *Events) HealthChanged(overview.Health) { signal(e.health) }

// Close releases any goroutine blocked in Wait.
func (e *Events) Close() {
	e.once.Do(func() { close(e.done) })
}

// Wait returns a command that delivers the next notification.
func (e *Events) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-e.catalog:
			return catalogChangedMsg{}
		case <-e.detail:
			return detailChangedMsg{}
		case <-e.health:
			return healthChangedMsg{}
		case <-e.done:
			return nil
		}
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
