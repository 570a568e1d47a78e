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
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fooddata/pkg/catalog"
	"github.com/AleutianAI/fooddata/pkg/debounce"
	"github.com/AleutianAI/fooddata/pkg/detail"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/overview"
	"github.com/AleutianAI/fooddata/pkg/prefs"
)

type harness struct {
	model Model
	gw    *gateway.MockGateway
	cat   *catalog.Controller
	store *prefs.Store
	clock *debounce.ManualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gw := &gateway.MockGateway{
		ProductsFunc: func(_ context.Context, q gateway.ProductQuery) (*gateway.ProductPage, error) {
			return &gateway.ProductPage{
				Items: []gateway.ProductSummary{
					{ID: 10, ProductName: "Oat Drink", NutriscoreGrade: gateway.GradeB, QualityScore: 80},
					{ID: 11, ProductName: "Soy Drink", NutriscoreGrade: gateway.GradeA, QualityScore: 91},
					{ID: 12, ProductName: "Cola", NutriscoreGrade: gateway.GradeE, QualityScore: 20},
				},
				Total: 45, Page: q.Page, PageSize: q.PageSize, TotalPages: 3,
			}, nil
		},
		StatsFunc: func(context.Context) (*gateway.AggregateStats, error) {
			return &gateway.AggregateStats{
				TotalProducts:          10,
				NutriscoreDistribution: map[gateway.Grade]int{gateway.GradeA: 6, gateway.GradeC: 4},
			}, nil
		},
	}
	ev := NewEvents()
	clock := debounce.NewManualClock()
	cat, err := catalog.New(catalog.Config{Gateway: gw, Clock: clock, OnChange: ev.CatalogChanged})
	require.NoError(t, err)
	store, err := prefs.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		cat.Close()
		ev.Close()
		_ = store.Close()
	})

	m := New(context.Background(), Deps{
		Catalog: cat,
		Detail:  detail.NewLookup(gw, nil, ev.DetailChanged),
		Stats:   overview.NewStatsLoader(gw, nil),
		Prefs:   store,
		Events:  ev,
	})
	return &harness{model: m, gw: gw, cat: cat, store: store, clock: clock}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// loadProducts runs the initial catalog fetch and hands the result to the model.
func (h *harness) loadProducts(t *testing.T) {
	t.Helper()
	h.cat.Start(context.Background())
	require.Eventually(t, func() bool { return h.cat.Snapshot().Status == catalog.StatusLoaded }, time.Second, 5*time.Millisecond)
	h.send(catalogChangedMsg{})
}

func TestModel_SwitchView(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, ViewOverview, h.model.view)

	h.press("tab")
	assert.Equal(t, ViewProducts, h.model.view)
	h.press("tab")
	assert.Equal(t, ViewOverview, h.model.view)
}

func TestModel_LeavingProductsDropsPendingSearch(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "/", "a", "p", "p", "esc", "tab")
	require.Equal(t, ViewOverview, h.model.view)
	assert.False(t, h.cat.Snapshot().Pending)

	h.clock.Advance(time.Second)
	assert.Never(t, func() bool { return len(h.gw.ProductQueries()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	h.press("tab")
	require.Equal(t, ViewProducts, h.model.view)
	require.Eventually(t, func() bool { return len(h.gw.ProductQueries()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "app", h.gw.ProductQueries()[0].Search, "returning fetches the filters on screen")
}

func TestModel_StatsLoad(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.model.View(), "Loading statistics")

	h.send(h.model.loadStats(false)())
	assert.True(t, h.model.stats.Ready())
	assert.Contains(t, h.model.View(), "Food data overview")

	cmd := h.send(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.True(t, h.model.stats.Loading)
	h.send(cmd())
	assert.False(t, h.model.stats.Loading)
	_, stats := h.gw.Counts()
	assert.Equal(t, 2, stats)
}

func TestModel_SearchTypingIsDebounced(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "/")
	assert.Equal(t, 0, h.model.focus)

	h.press("o", "a", "t")
	snap := h.cat.Snapshot()
	assert.Equal(t, "oat", snap.Filters.Search)
	assert.True(t, snap.Pending)
	assert.Empty(t, h.gw.ProductQueries(), "typing alone waits for the quiet period")

	h.press("enter")
	assert.Equal(t, -1, h.model.focus)
	require.Eventually(t, func() bool { return len(h.gw.ProductQueries()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "oat", h.gw.ProductQueries()[0].Search)
}

func TestModel_InputTabCyclesFields(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "b")
	assert.Equal(t, 1, h.model.focus)
	h.press("A", "l")
	assert.Equal(t, "Al", h.cat.Snapshot().Filters.Brand)

	h.press("tab")
	assert.Equal(t, 2, h.model.focus)
	h.press("esc")
	assert.Equal(t, -1, h.model.focus)
	assert.Equal(t, ViewProducts, h.model.view, "tab inside an input does not switch views")
}

func TestModel_GradeCycle(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "g")
	assert.Equal(t, gateway.GradeA, h.cat.Snapshot().Filters.Grade)

	h.press("g", "g", "g", "g")
	assert.Equal(t, gateway.GradeE, h.cat.Snapshot().Filters.Grade)
	h.press("g")
	assert.Equal(t, gateway.GradeNone, h.cat.Snapshot().Filters.Grade)
}

func TestModel_MinQualityKeys(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "+", "+")
	assert.Equal(t, 20, h.cat.Snapshot().Filters.MinQuality)

	h.press("-", "-", "-")
	assert.Equal(t, 0, h.cat.Snapshot().Filters.MinQuality)
}

func TestModel_ResetFilters(t *testing.T) {
	h := newHarness(t)
	h.press("tab", "/", "x", "y", "esc", "g", "x")

	assert.True(t, h.cat.Snapshot().Filters.IsDefault())
	assert.Equal(t, "", h.model.inputs[0].Value())
}

func TestModel_SelectAndOpenDetail(t *testing.T) {
	h := newHarness(t)
	h.press("tab")
	h.loadProducts(t)
	assert.Contains(t, h.model.View(), "Oat Drink")

	h.press("j", "j", "j")
	assert.Equal(t, 2, h.model.selected, "selection stops at the last row")
	h.press("k")
	assert.Equal(t, 1, h.model.selected)

	h.press("enter")
	assert.True(t, h.model.det.Open)
	require.Eventually(t, func() bool {
		return h.model.deps.Detail.State().Data != nil
	}, time.Second, 5*time.Millisecond)
	h.send(detailChangedMsg{})
	assert.Equal(t, []int64{11}, h.gw.ProductIDs())
	assert.Contains(t, h.model.View(), "#11")

	h.press("esc")
	assert.False(t, h.model.det.Open)
}

func TestModel_Paging(t *testing.T) {
	h := newHarness(t)
	h.press("tab")
	h.loadProducts(t)

	h.press("n")
	assert.Equal(t, 2, h.model.snap.Page.Page)
	h.press("p", "p")
	assert.Equal(t, 1, h.model.snap.Page.Page)
}

func TestModel_ThemeToggle(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyMsg("t"))
	assert.Equal(t, prefs.ThemeDark, h.model.theme)
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(themeSavedMsg)
	require.True(t, ok)
	assert.NoError(t, saved.err)
	h.send(msg)

	th, err := h.store.Theme()
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, th)
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	h.press("tab", "/")
	cmd = h.send(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd(), "ctrl+c quits even while typing")
}

func TestModel_HealthIndicator(t *testing.T) {
	h := newHarness(t)
	mon := overview.NewHealthMonitor(h.gw, overview.HealthConfig{})
	h.model.deps.Health = mon
	assert.Contains(t, h.model.View(), "checking")

	mon.Probe(context.Background())
	h.send(healthChangedMsg{})
	assert.Contains(t, h.model.View(), "online")
}

func TestEvents_Coalesce(t *testing.T) {
	ev := NewEvents()
	ev.CatalogChanged(catalog.Snapshot{})
	ev.CatalogChanged(catalog.Snapshot{})

	assert.Equal(t, catalogChangedMsg{}, ev.Wait()())
	ev.HealthChanged(overview.HealthUp)
	assert.Equal(t, healthChangedMsg{}, ev.Wait()())

	ev.Close()
	ev.Close()
	assert.Nil(t, ev.Wait()())
}

func TestNextGrade(t *testing.T) {
	assert.Equal(t, gateway.GradeA, nextGrade(gateway.GradeNone))
	assert.Equal(t, gateway.GradeNone, nextGrade(gateway.GradeE))
	assert.Equal(t, gateway.GradeNone, nextGrade("z"))
}
