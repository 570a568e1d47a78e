// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package detail

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not settle")
	}
}

func TestLookup_Open(t *testing.T) {
	score := 4
	gw := &gateway.MockGateway{
		ProductFunc: func(_ context.Context, id int64) (*gateway.ProductDetail, error) {
			return &gateway.ProductDetail{ProductSummary: gateway.ProductSummary{
				ID: id, ProductName: "Soy Drink", NutriscoreScore: &score,
			}}, nil
		},
	}
	l := NewLookup(gw, nil, nil)

	done := l.Open(context.Background(), 7)
	st := l.State()
	assert.True(t, st.Open)
	assert.Equal(t, int64(7), st.ID)

	wait(t, done)
	st = l.State()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Data)
	assert.Equal(t, "Soy Drink", st.Data.ProductName)
	assert.NoError(t, st.Err)
	assert.False(t, st.NotFound)
	assert.Equal(t, []int64{7}, gw.ProductIDs())
}

func TestLookup_NotFound(t *testing.T) {
	gw := &gateway.MockGateway{
		ProductFunc: func(context.Context, int64) (*gateway.ProductDetail, error) {
			return nil, gateway.ErrNotFound
		},
	}
	l := NewLookup(gw, nil, nil)

	wait(t, l.Open(context.Background(), 999999))
	st := l.State()
	assert.True(t, st.Open)
	assert.True(t, st.NotFound)
	assert.True(t, st.Failed())
	assert.Nil(t, st.Data)
}

func TestLookup_Failure(t *testing.T) {
	gw := &gateway.MockGateway{
		ProductFunc: func(context.Context, int64) (*gateway.ProductDetail, error) {
			return nil, &gateway.FetchError{Op: "product", StatusCode: 502}
		},
	}
	l := NewLookup(gw, nil, nil)

	wait(t, l.Open(context.Background(), 3))
	st := l.State()
	assert.ErrorIs(t, st.Err, gateway.ErrFetch)
	assert.False(t, st.NotFound)
	assert.False(t, st.Loading)
}

func TestLookup_NoCacheAcrossOpens(t *testing.T) {
	gw := &gateway.MockGateway{}
	l := NewLookup(gw, nil, nil)

	wait(t, l.Open(context.Background(), 5))
	l.Close()
	wait(t, l.Open(context.Background(), 5))

	assert.Equal(t, []int64{5, 5}, gw.ProductIDs())
}

func TestLookup_SupersededOpenDropped(t *testing.T) {
	release := make(chan struct{})
	gw := &gateway.MockGateway{
		ProductFunc: func(_ context.Context, id int64) (*gateway.ProductDetail, error) {
			if id == 1 {
				<-release
			}
			return &gateway.ProductDetail{ProductSummary: gateway.ProductSummary{ID: id}}, nil
		},
	}
	l := NewLookup(gw, nil, nil)

	first := l.Open(context.Background(), 1)
	wait(t, l.Open(context.Background(), 2))
	close(release)
	wait(t, first)

	st := l.State()
	assert.Equal(t, int64(2), st.ID)
	require.NotNil(t, st.Data)
	assert.Equal(t, int64(2), st.Data.ID)
}

func TestLookup_CloseAbandonsFetch(t *testing.T) {
	var gotCancel bool
	var mu sync.Mutex
	gw := &gateway.MockGateway{
		ProductFunc: func(ctx context.Context, _ int64) (*gateway.ProductDetail, error) {
			<-ctx.Done()
			mu.Lock()
			gotCancel = true
			mu.Unlock()
			return nil, ctx.Err()
		},
	}
	l := NewLookup(gw, nil, nil)

	done := l.Open(context.Background(), 9)
	l.Close()
	wait(t, done)

	mu.Lock()
	assert.True(t, gotCancel)
	mu.Unlock()
	assert.Equal(t, State{}, l.State())
}

func TestLookup_OnChangeSequence(t *testing.T) {
	var mu sync.Mutex
	var states []State
	l := NewLookup(&gateway.MockGateway{}, nil, func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	wait(t, l.Open(context.Background(), 4))
	l.Close()
	l.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, states, 3)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
	assert.NotNil(t, states[1].Data)
	assert.False(t, states[2].Open)
}
