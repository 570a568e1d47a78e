// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"context"
	"sync"
)

// MockGateway is a configurable Gateway for tests.
//
// # Description
//
// Each method records its call and delegates to the matching Func field.
// Unset funcs return empty successful results.
//
// # Examples
//
//	mock := &gateway.MockGateway{
//	    ProductFunc: func(ctx context.Context, id int64) (*gateway.ProductDetail, error) {
//	        return nil, gateway.ErrNotFound
//	    },
//	}
type MockGateway struct {
	HealthFunc   func(ctx context.Context) error
	StatsFunc    func(ctx context.Context) (*AggregateStats, error)
	ProductsFunc func(ctx context.Context, q ProductQuery) (*ProductPage, error)
	ProductFunc  func(ctx context.Context, id int64) (*ProductDetail, error)

	HealthCalls   int
	StatsCalls    int
	ProductsCalls []ProductQuery
	ProductCalls  []int64
	mu            sync.Mutex
}

var _ Gateway = (*MockGateway)(nil)

// Health implements Gateway.
func (m *MockGateway) Health(ctx context.Context) error {
	m.mu.Lock()
	m.HealthCalls++
	m.mu.Unlock()

	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Stats implements Gateway.
func (m *MockGateway) Stats(ctx context.Context) (*AggregateStats, error) {
	m.mu.Lock()
	m.StatsCalls++
	m.mu.Unlock()

	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &AggregateStats{NutriscoreDistribution: map[Grade]int{}}, nil
}

// Products implements Gateway.
func (m *MockGateway) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	m.mu.Lock()
	m.ProductsCalls = append(m.ProductsCalls, q)
	m.mu.Unlock()

	if m.ProductsFunc != nil {
		return m.ProductsFunc(ctx, q)
	}
	return &ProductPage{Page: q.Page, PageSize: q.PageSize, TotalPages: 1}, nil
}

// Product implements Gateway.
func (m *MockGateway) Product(ctx context.Context, id int64) (*ProductDetail, error) {
	m.mu.Lock()
	m.ProductCalls = append(m.ProductCalls, id)
	m.mu.Unlock()

	if m.ProductFunc != nil {
		return m.ProductFunc(ctx, id)
	}
	return &ProductDetail{ProductSummary: ProductSummary{ID: id}}, nil
}

// ProductQueries returns a copy of the recorded Products calls.
func (m *MockGateway) ProductQueries() []ProductQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ProductQuery(nil), m.ProductsCalls...)
}

// ProductIDs returns a copy of the recorded Product calls.
func (m *MockGateway) ProductIDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.ProductCalls...)
}

// Counts returns the number of Health and Stats calls so far.
func (m *MockGateway) Counts() (health, stats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HealthCalls, m.StatsCalls
}
