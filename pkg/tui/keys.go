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

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	SwitchView key.Binding
	Theme      key.Binding
	Reload     key.Binding
	Search     key.Binding
	Brand      key.Binding
	Category   key.Binding
	Grade      key.Binding
	MoreQ      key.Binding
	LessQ      key.Binding
	Reset      key.Binding
	Next       key.Binding
	Prev       key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Back       key.Binding
	Retry      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SwitchView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "overview/products")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload stats")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Brand:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "brand")),
		Category:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Grade:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grade")),
		MoreQ:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "min quality")),
		LessQ:      key.NewBinding(key.WithKeys("-")),
		Reset:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset filters")),
		Next:       key.NewBinding(key.WithKeys("n", "right", "pgdown"), key.WithHelp("n/p", "page")),
		Prev:       key.NewBinding(key.WithKeys("p", "left", "pgup")),
		Up:         key.NewBinding(key.WithKeys("k", "up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↑/↓", "select")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Retry:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry")),
	}
}

// productHelp is the help.KeyMap of the product view.
type productHelp keyMap

func (k productHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Grade, k.MoreQ, k.Reset, k.Next, k.Down, k.Open, k.SwitchView, k.Theme, k.Quit}
}

func (k productHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Brand, k.Category, k.Retry}}
}

type overviewHelp keyMap

func (k overviewHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.SwitchView, k.Theme, k.Quit}
}

func (k overviewHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type detailHelp keyMap

func (k detailHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Theme, k.Quit}
}

func (k detailHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
