// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package overview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
)

func sampleStats() *gateway.AggregateStats {
	return &gateway.AggregateStats{
		TotalProducts:   110,
		TotalBrands:     12,
		TotalCategories: 7,
		AvgQualityScore: 63.4,
		NutriscoreDistribution: map[gateway.Grade]int{
			gateway.GradeA: 40, gateway.GradeB: 30, gateway.GradeC: 20,
			gateway.GradeD: 8, gateway.GradeE: 2,
		},
		TopBrands: []gateway.RankedEntry{{Name: "Carrefour", Count: 18}},
	}
}

// =============================================================================
// STATS
// =============================================================================

func TestStatsLoader_Load(t *testing.T) {
	gw := &gateway.MockGateway{
		StatsFunc: func(context.Context) (*gateway.AggregateStats, error) { return sampleStats(), nil },
	}
	l := NewStatsLoader(gw, nil)
	assert.False(t, l.State().Ready())

	st, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Ready())
	assert.False(t, st.Loading)
	assert.Equal(t, 110, st.Overview.TotalProducts)
	assert.Equal(t, gateway.GradeA, st.Overview.Dominant)
	assert.Equal(t, derive.TierHigh, st.Overview.AvgTier)
	assert.False(t, st.LoadedAt.IsZero())
}

func TestStatsLoader_ReloadFailureKeepsSnapshot(t *testing.T) {
	var fail atomic.Bool
	gw := &gateway.MockGateway{
		StatsFunc: func(context.Context) (*gateway.AggregateStats, error) {
			if fail.Load() {
				return nil, gateway.ErrServiceUnavailable
			}
			return sampleStats(), nil
		},
	}
	l := NewStatsLoader(gw, nil)

	first, err := l.Load(context.Background())
	require.NoError(t, err)

	fail.Store(true)
	st, err := l.Reload(context.Background())
	assert.ErrorIs(t, err, gateway.ErrServiceUnavailable)
	assert.ErrorIs(t, st.Err, gateway.ErrServiceUnavailable)
	assert.Equal(t, first.Stats, st.Stats)
	assert.Equal(t, first.Overview, st.Overview)

	fail.Store(false)
	st, err = l.Reload(context.Background())
	require.NoError(t, err)
	assert.NoError(t, st.Err)
	_, stats := gw.Counts()
	assert.Equal(t, 3, stats)
}

func TestStatsLoader_FirstLoadFails(t *testing.T) {
	gw := &gateway.MockGateway{
		StatsFunc: func(context.Context) (*gateway.AggregateStats, error) { return nil, errors.New("boom") },
	}
	l := NewStatsLoader(gw, nil)

	st, err := l.Load(context.Background())
	assert.Error(t, err)
	assert.False(t, st.Ready())
	assert.Error(t, st.Err)
}

func TestStatsLoader_OverlappingLoadsApplyLatest(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	gw := &gateway.MockGateway{
		StatsFunc: func(context.Context) (*gateway.AggregateStats, error) {
			s := sampleStats()
			if calls.Add(1) == 1 {
				<-release
				s.TotalProducts = 1
			}
			return s, nil
		},
	}
	l := NewStatsLoader(gw, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = l.Load(context.Background())
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := l.Reload(context.Background())
	require.NoError(t, err)
	close(release)
	wg.Wait()

	assert.Equal(t, 110, l.State().Stats.TotalProducts)
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth_String(t *testing.T) {
	assert.Equal(t, "checking", HealthUnknown.String())
	assert.Equal(t, "online", HealthUp.String())
	assert.Equal(t, "offline", HealthDown.String())
}

func TestHealthMonitor_Probe(t *testing.T) {
	var down atomic.Bool
	gw := &gateway.MockGateway{
		HealthFunc: func(context.Context) error {
			if down.Load() {
				return gateway.ErrServiceUnavailable
			}
			return nil
		},
	}
	var changes []Health
	m := NewHealthMonitor(gw, HealthConfig{OnChange: func(h Health) { changes = append(changes, h) }})

	h, checked := m.Status()
	assert.Equal(t, HealthUnknown, h)
	assert.True(t, checked.IsZero())

	assert.Equal(t, HealthUp, m.Probe(context.Background()))
	assert.Equal(t, HealthUp, m.Probe(context.Background()))
	down.Store(true)
	assert.Equal(t, HealthDown, m.Probe(context.Background()))

	h, checked = m.Status()
	assert.Equal(t, HealthDown, h)
	assert.False(t, checked.IsZero())
	assert.Equal(t, []Health{HealthUp, HealthDown}, changes)
}

func TestHealthMonitor_ProbeTimeout(t *testing.T) {
	gw := &gateway.MockGateway{
		HealthFunc: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	m := NewHealthMonitor(gw, HealthConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	assert.Equal(t, HealthDown, m.Probe(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestHealthMonitor_StartProbesOnce(t *testing.T) {
	gw := &gateway.MockGateway{}
	m := NewHealthMonitor(gw, HealthConfig{})
	require.NoError(t, m.Start())
	defer m.Stop()

	require.Eventually(t, func() bool {
		h, _ := m.Status()
		return h == HealthUp
	}, time.Second, 5*time.Millisecond)
	assert.Error(t, m.Start(), "second start is rejected")
}

func TestHealthMonitor_Schedule(t *testing.T) {
	gw := &gateway.MockGateway{}
	m := NewHealthMonitor(gw, HealthConfig{Schedule: "@every 1s"})
	require.NoError(t, m.Start())

	require.Eventually(t, func() bool {
		n, _ := gw.Counts()
		return n >= 2
	}, 3*time.Second, 10*time.Millisecond)

	m.Stop()
	n, _ := gw.Counts()
	time.Sleep(1200 * time.Millisecond)
	after, _ := gw.Counts()
	assert.Equal(t, n, after, "no probes after Stop")
}

func TestHealthMonitor_InvalidSchedule(t *testing.T) {
	m := NewHealthMonitor(&gateway.MockGateway{}, HealthConfig{Schedule: "every so often"})
	err := m.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid health schedule")
	m.Stop()
}
