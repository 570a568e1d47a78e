// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


// Package tui implements the interactive dashboard browser.
//
// # Description
//
// The browser has two views, the statistics overview and the product list,
// plus a detail panel opened from the list. All data flows through the
// controllers in pkg/catalog, pkg/detail and pkg/overview; the model only
// translates keys into controller calls and renders their state.
//
// # Thread Safety
//
// The model runs inside the bubbletea event loop. Controllers report
// changes through Events, never by touching the model.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/AleutianAI/fooddata/pkg/catalog"
	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/detail"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/overview"
	"github.com/AleutianAI/fooddata/pkg/prefs"
	"github.com/AleutianAI/fooddata/pkg/ux"
)

// =============================================================================
// Types
// =============================================================================

// View is the active page.
type View int

const (
	ViewOverview View = iota
	ViewProducts
)

// qualityStep is the min-quality increment of the +/- keys.
const qualityStep = 10

// gradeCycle is the order the grade key steps through.
var gradeCycle = []gateway.Grade{
	gateway.GradeNone, gateway.GradeA, gateway.GradeB,
	gateway.GradeC, gateway.GradeD, gateway.GradeE,
}

// textFilters are the free-text inputs, in focus order.
var textFilters = []catalog.FilterKey{catalog.KeySearch, catalog.KeyBrand, catalog.KeyCategory}

// Deps are the collaborators of the browser. Prefs and Health may be nil.
type Deps struct {
	Catalog *catalog.Controller
	Detail  *detail.Lookup
	Stats   *overview.StatsLoader
	Health  *overview.HealthMonitor
	Prefs   *prefs.Store
	Events  *Events
	Theme   prefs.Theme
	Logger  *slog.Logger
}

type statsLoadedMsg struct {
	state overview.StatsState
}

type themeSavedMsg struct {
	theme prefs.Theme
	err   error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *slog.Logger

	view    View
	theme   prefs.Theme
	printer *ux.Printer

	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	keys     keyMap
	help     help.Model
	selected int

	stats  overview.StatsState
	snap   catalog.Snapshot
	det    detail.State
	health overview.Health
	flash  string

	width  int
	height int
}

// New creates the browser model. ctx bounds every request it starts.
func New(ctx context.Context, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := deps.Theme
	if theme == "" {
		theme = prefs.DefaultTheme
	}

	inputs := make([]textinput.Model, len(textFilters))
	for i, k := range textFilters {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = string(k)
		in.CharLimit = 80
		in.Width = 18
		inputs[i] = in
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		deps:    deps,
		logger:  logger.With("component", "tui"),
		view:    ViewOverview,
		theme:   theme,
		printer: ux.NewPrinter(io.Discard, io.Discard, ux.ModeRich, theme),
		inputs:  inputs,
		focus:   -1,
		spinner: sp,
		keys:    defaultKeys(),
		help:    help.New(),
		stats:   overview.StatsState{Loading: true},
	}
}

// Init starts the first loads.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.loadStats(false), m.deps.Events.Wait()}
	cmds = append(cmds, func() tea.Msg {
		m.deps.Catalog.Start(m.ctx)
		return nil
	})
	return tea.Batch(cmds...)
}

// =============================================================================
// Update
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statsLoadedMsg:
		m.stats = msg.state
		return m, nil

	case catalogChangedMsg:
		m.snap = m.deps.Catalog.Snapshot()
		m.clampSelection()
		return m, m.deps.Events.Wait()

	case detailChangedMsg:
		m.det = m.deps.Detail.State()
		return m, m.deps.Events.Wait()

	case healthChangedMsg:
		if m.deps.Health != nil {
			m.health, _ = m.deps.Health.Status()
		}
		return m, m.deps.Events.Wait()

	case themeSavedMsg:
		if msg.err != nil {
			m.flash = "theme not saved: " + msg.err.Error()
			m.logger.Warn("theme save failed", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.focus >= 0 {
		return m.handleInputKey(msg)
	}
	if m.det.Open {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.deps.Detail.Close()
			m.det = m.deps.Detail.State()
		case key.Matches(msg, m.keys.Theme):
			return m.toggleTheme()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	m.flash = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.SwitchView):
		if m.view == ViewOverview {
			m.view = ViewProducts
			m.deps.Catalog.Resume()
		} else {
			m.view = ViewOverview
			m.deps.Catalog.Suspend()
		}
		m.snap = m.deps.Catalog.Snapshot()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()
	}

	if m.view == ViewOverview {
		if key.Matches(msg, m.keys.Reload) {
			m.stats.Loading = true
			return m, m.loadStats(true)
		}
		return m, nil
	}
	return m.handleProductKey(msg)
}

func (m Model) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.deps.Catalog
	switch {
	case key.Matches(msg, m.keys.Search):
		return m.focusInput(0)
	case key.Matches(msg, m.keys.Brand):
		return m.focusInput(1)
	case key.Matches(msg, m.keys.Category):
		return m.focusInput(2)
	case key.Matches(msg, m.keys.Grade):
		m.updateFilter(catalog.KeyGrade, string(nextGrade(m.snap.Filters.Grade)))
	case key.Matches(msg, m.keys.MoreQ):
		m.updateFilter(catalog.KeyMinQuality, strconv.Itoa(m.snap.Filters.MinQuality+qualityStep))
	case key.Matches(msg, m.keys.LessQ):
		m.updateFilter(catalog.KeyMinQuality, strconv.Itoa(m.snap.Filters.MinQuality-qualityStep))
	case key.Matches(msg, m.keys.Reset):
		c.ResetFilters()
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.selected = 0
	case key.Matches(msg, m.keys.Next):
		if c.NextPage() {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Prev):
		if c.PrevPage() {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.snap.Result.Items)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Open):
		if m.selected >= 0 && m.selected < len(m.snap.Result.Items) {
			id := m.snap.Result.Items[m.selected].ID
			m.deps.Detail.Open(m.ctx, id)
			m.det = m.deps.Detail.State()
		}
	case key.Matches(msg, m.keys.Retry):
		if m.snap.Status == catalog.StatusErrored {
			c.Retry()
		}
	}
	m.snap = c.Snapshot()
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.blur()
		return m, nil
	case tea.KeyEnter:
		m.deps.Catalog.Commit()
		m.blur()
		m.snap = m.deps.Catalog.Snapshot()
		return m, nil
	case tea.KeyTab:
		return m.focusInput((m.focus + 1) % len(m.inputs))
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.updateFilter(textFilters[m.focus], after)
		m.snap = m.deps.Catalog.Snapshot()
	}
	return m, cmd
}

func (m Model) focusInput(i int) (tea.Model, tea.Cmd) {
	m.blur()
	m.focus = i
	return m, m.inputs[i].Focus()
}

func (m *Model) blur() {
	if m.focus >= 0 {
		m.inputs[m.focus].Blur()
	}
	m.focus = -1
}

func (m *Model) updateFilter(k catalog.FilterKey, v string) {
	if err := m.deps.Catalog.UpdateFilter(k, v); err != nil {
		m.flash = err.Error()
		return
	}
	m.selected = 0
}

func (m *Model) clampSelection() {
	n := len(m.snap.Result.Items)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func nextGrade(g gateway.Grade) gateway.Grade {
	for i, c := range gradeCycle {
		if c == g {
			return gradeCycle[(i+1)%len(gradeCycle)]
		}
	}
	return gateway.GradeNone
}

// =============================================================================
// Commands
// =============================================================================

func (m Model) loadStats(reload bool) tea.Cmd {
	stats, ctx := m.deps.Stats, m.ctx
	return func() tea.Msg {
		var st overview.StatsState
		if reload {
			st, _ = stats.Reload(ctx)
		} else {
			st, _ = stats.Load(ctx)
		}
		return statsLoadedMsg{state: st}
	}
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.theme = m.theme.Other()
	m.printer = ux.NewPrinter(io.Discard, io.Discard, ux.ModeRich, m.theme)

	store, theme := m.deps.Prefs, m.theme
	if store == nil {
		return m, nil
	}
	return m, func() tea.Msg {
		return themeSavedMsg{theme: theme, err: store.SetTheme(theme)}
	}
}

// =============================================================================
// View
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.det.Open:
		b.WriteString(m.renderDetail())
	case m.view == ViewOverview:
		b.WriteString(m.renderOverview())
	default:
		b.WriteString(m.renderProducts())
	}

	if m.flash != "" {
		b.WriteString("\n\n")
		b.WriteString(m.printer.Styles().Warning.Render(m.flash))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.printer.Styles()
	tab := func(label string, v View) string {
		if m.view == v {
			return s.Selected.Render(" " + label + " ")
		}
		return s.Muted.Render(" " + label + " ")
	}
	return fmt.Sprintf("%s  %s %s   %s",
		s.Title.Render("fooddata"),
		tab("Overview", ViewOverview), tab("Products", ViewProducts),
		m.printer.RenderHealth(m.health))
}

func (m Model) renderOverview() string {
	s := m.printer.Styles()
	st := m.stats
	if !st.Ready() {
		if st.Err != nil {
			return s.Error.Render("Could not load statistics: "+st.Err.Error()) + "\n" +
				s.Muted.Render("press r to retry")
		}
		return m.spinner.View() + " Loading statistics…"
	}

	var b strings.Builder
	if st.Loading {
		b.WriteString(m.spinner.View() + " Reloading…\n\n")
	} else if st.Err != nil {
		b.WriteString(s.Warning.Render("Showing last loaded statistics: "+st.Err.Error()) + "\n\n")
	}
	b.WriteString(m.printer.RenderOverview(st.Overview))
	return b.String()
}

func (m Model) renderProducts() string {
	s := m.printer.Styles()
	f := m.snap.Filters
	var b strings.Builder

	labels := []string{"Search", "Brand", "Category"}
	for i, in := range m.inputs {
		label := s.Muted.Render(labels[i])
		if i == m.focus {
			label = s.Highlight.Render(labels[i])
		}
		fmt.Fprintf(&b, "%s %s  ", label, in.View())
	}
	b.WriteString("\n")
	grade := "any"
	if f.Grade != gateway.GradeNone {
		grade = f.Grade.Upper()
	}
	fmt.Fprintf(&b, "%s %s  %s %d", s.Muted.Render("Grade"), grade, s.Muted.Render("Min quality"), f.MinQuality)
	if m.snap.Pending || m.snap.Status == catalog.StatusLoading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	if m.snap.Status == catalog.StatusErrored {
		b.WriteString(s.Error.Render("Could not load products: "+m.snap.Err.Error()) + " " +
			s.Muted.Render("(R to retry)"))
		b.WriteString("\n\n")
	}
	if !m.snap.HasResult {
		if m.snap.Status != catalog.StatusErrored {
			b.WriteString(m.spinner.View() + " Loading products…")
		}
		return b.String()
	}
	b.WriteString(m.printer.RenderProductPage(m.snap.Result, f.Tags(), m.selected))
	return b.String()
}

func (m Model) renderDetail() string {
	s := m.printer.Styles()
	d := m.det
	switch {
	case d.Loading:
		return m.spinner.View() + fmt.Sprintf(" Loading product #%d…", d.ID)
	case d.NotFound:
		return s.Warning.Render(fmt.Sprintf("Product #%d was not found.", d.ID))
	case d.Err != nil:
		return s.Error.Render("Could not load product: " + d.Err.Error())
	case d.Data != nil:
		return m.printer.RenderProduct(*d.Data, derive.NewProductView(*d.Data))
	}
	return ""
}

func (m Model) renderHelp() string {
	switch {
	case m.det.Open:
		return m.help.View(detailHelp(m.keys))
	case m.view == ViewOverview:
		return m.help.View(overviewHelp(m.keys))
	default:
		return m.help.View(productHelp(m.keys))
	}
}
