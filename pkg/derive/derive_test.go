// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package derive

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

func statsWith(total int, a, b, c, d, e int) gateway.AggregateStats {
	return gateway.AggregateStats{
		TotalProducts: total,
		NutriscoreDistribution: map[gateway.Grade]int{
			gateway.GradeA: a, gateway.GradeB: b, gateway.GradeC: c, gateway.GradeD: d, gateway.GradeE: e,
		},
	}
}

// =============================================================================
// DISTRIBUTION
// =============================================================================

func TestOverview_GradedAndInsights(t *testing.T) {
	stats := statsWith(110, 40, 30, 20, 8, 2)

	donut := NewDonut(stats)
	assert.Equal(t, 100, donut.Graded)
	assert.Equal(t, 10, donut.Ungraded)
	assert.True(t, donut.Consistent())

	assert.Equal(t, gateway.GradeA, Dominant(stats))
	assert.Equal(t, 40, DominantPct(stats))
	assert.Equal(t, 70, GoodPct(stats))

	ov := NewOverview(stats)
	assert.Equal(t, gateway.GradeA, ov.Dominant)
	assert.Equal(t, 40, ov.DominantPct)
	assert.Equal(t, 70, ov.GoodPct)
}

func TestNewDonut_SharesUseGradedDenominator(t *testing.T) {
	donut := NewDonut(statsWith(110, 40, 30, 20, 8, 2))

	require.Len(t, donut.Shares, 5)
	want := []int{40, 30, 20, 8, 2}
	for i, s := range donut.Shares {
		assert.Equal(t, gateway.Grades[i], s.Grade)
		assert.Equal(t, want[i], s.Percent, "grade %s", s.Grade)
	}
	assert.InDelta(t, 100.0, donut.Shares[0].BarWidth, 1e-9)
	assert.InDelta(t, 5.0, donut.Shares[4].BarWidth, 1e-9)
}

func TestNewDonut_ArcsNeverOverlap(t *testing.T) {
	donut := NewDonut(statsWith(110, 40, 30, 20, 8, 2))

	require.Len(t, donut.Arcs, 5)
	assert.Equal(t, 0.0, donut.Arcs[0].Offset)
	assert.InDelta(t, 0.4*Circumference-ArcGap, donut.Arcs[0].Length, 1e-9)
	for i := 1; i < len(donut.Arcs); i++ {
		prev := donut.Arcs[i-1]
		assert.GreaterOrEqual(t, donut.Arcs[i].Offset, prev.Offset+prev.Length, "arc %d overlaps", i)
		assert.Equal(t, gateway.Grades[i], donut.Arcs[i].Grade)
	}
	last := donut.Arcs[4]
	assert.InDelta(t, Circumference, last.Offset+last.Length+ArcGap, 1e-9)
}

func TestNewDonut_ZeroCountArcHasNoLength(t *testing.T) {
	donut := NewDonut(statsWith(10, 10, 0, 0, 0, 0))
	for _, arc := range donut.Arcs[1:] {
		assert.Equal(t, 0.0, arc.Length)
	}
	assert.Equal(t, 3.0, donut.Shares[1].BarWidth, "bars never vanish")
}

func TestNewDonut_FractionsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		counts := make([]int, 5)
		for j := range counts {
			counts[j] = rng.Intn(1000)
		}
		stats := statsWith(0, counts[0], counts[1], counts[2], counts[3], counts[4])
		donut := NewDonut(stats)

		sum := 0.0
		for _, s := range donut.Shares {
			sum += s.Fraction
		}
		if donut.Graded > 0 {
			assert.InDelta(t, 1.0, sum, 1e-9, "counts %v", counts)
		} else {
			assert.Equal(t, 0.0, sum)
		}
	}
}

func TestNewDonut_NothingGraded(t *testing.T) {
	donut := NewDonut(gateway.AggregateStats{TotalProducts: 7})

	assert.Equal(t, 0, donut.Graded)
	assert.Equal(t, 7, donut.Ungraded)
	for _, s := range donut.Shares {
		assert.Equal(t, 0.0, s.Fraction)
		assert.Equal(t, 0, s.Percent)
	}
	assert.Equal(t, 0, GoodPct(gateway.AggregateStats{}))
	assert.Equal(t, 0, DominantPct(gateway.AggregateStats{}))
	assert.Equal(t, gateway.GradeA, Dominant(gateway.AggregateStats{}))
}

func TestNewDonut_InconsistentSnapshotNotClamped(t *testing.T) {
	donut := NewDonut(statsWith(50, 40, 30, 0, 0, 0))

	assert.Equal(t, -20, donut.Ungraded)
	assert.False(t, donut.Consistent())
}

func TestNewDonut_IgnoresUnknownGrades(t *testing.T) {
	stats := statsWith(20, 5, 0, 0, 0, 5)
	stats.NutriscoreDistribution["unknown"] = 10

	assert.Equal(t, 10, NewDonut(stats).Graded)
}

func TestDominant_TieBreaksByOrder(t *testing.T) {
	tests := []struct {
		stats gateway.AggregateStats
		want  gateway.Grade
	}{
		{statsWith(0, 5, 5, 0, 0, 0), gateway.GradeA},
		{statsWith(0, 1, 7, 7, 0, 0), gateway.GradeB},
		{statsWith(0, 0, 0, 3, 3, 3), gateway.GradeC},
		{statsWith(0, 0, 0, 0, 0, 1), gateway.GradeE},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, Dominant(tt.stats))
		})
	}
}

func TestGoodPct_RoundsHalfUp(t *testing.T) {
	// 1 of 8 graded = 12.5%
	assert.Equal(t, 13, GoodPct(statsWith(8, 1, 0, 7, 0, 0)))
	// 2 of 3 graded = 66.67%
	assert.Equal(t, 67, GoodPct(statsWith(3, 1, 1, 1, 0, 0)))
}

// =============================================================================
// HISTOGRAM
// =============================================================================

func TestNewHistogram_Heuristic(t *testing.T) {
	h := NewHistogram(statsWith(110, 40, 30, 20, 8, 2))

	require.Len(t, h.Buckets, 5)
	labels := []string{"0-20", "21-40", "41-60", "61-80", "81-100"}
	counts := []int{2, 6, 20, 33, 40}
	for i, b := range h.Buckets {
		assert.Equal(t, labels[i], b.Label)
		assert.Equal(t, counts[i], b.Count, "bucket %s", b.Label)
	}
	assert.InDelta(t, 100.0, h.Buckets[4].Height, 1e-9)
	assert.InDelta(t, 6.0, h.Buckets[0].Height, 1e-9, "2/40 is below the floor")
	assert.InDelta(t, 50.0, h.Buckets[2].Height, 1e-9)
}

func TestNewHistogram_RoundsScaledBuckets(t *testing.T) {
	h := NewHistogram(statsWith(0, 0, 5, 0, 3, 0))
	assert.Equal(t, 2, h.Buckets[1].Count, "0.8*3 = 2.4")
	assert.Equal(t, 6, h.Buckets[3].Count, "1.1*5 = 5.5")
}

func TestNewHistogram_Empty(t *testing.T) {
	h := NewHistogram(gateway.AggregateStats{})
	for _, b := range h.Buckets {
		assert.Equal(t, 0, b.Count)
		assert.Equal(t, 6.0, b.Height)
	}
}

// =============================================================================
// DECOMPOSITION
// =============================================================================

func TestDecompose_GradeB75(t *testing.T) {
	d := Decompose(75, gateway.GradeB)

	assert.Equal(t, 32, d.NutriscorePoints)
	assert.Equal(t, 22, d.CompletenessPoints)
	assert.Equal(t, 21, d.NutritionPoints)
}

func TestDecompose_Table(t *testing.T) {
	tests := []struct {
		q     int
		grade gateway.Grade
		want  Decomposition
	}{
		{100, gateway.GradeA, Decomposition{100, 40, 30, 30}},
		{40, gateway.GradeA, Decomposition{40, 40, 0, 0}},
		{50, gateway.GradeNone, Decomposition{50, 0, 25, 25}},
		{1, gateway.GradeNone, Decomposition{1, 0, 1, 0}},
		{0, gateway.GradeE, Decomposition{0, 0, 0, 0}},
		{100, gateway.GradeE, Decomposition{100, 8, 30, 62}},
		{63, gateway.GradeC, Decomposition{63, 24, 20, 19}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%s", tt.q, tt.grade), func(t *testing.T) {
			assert.Equal(t, tt.want, Decompose(tt.q, tt.grade))
		})
	}
}

func TestDecompose_Additive(t *testing.T) {
	grades := append([]gateway.Grade{gateway.GradeNone, "unknown"}, gateway.Grades...)
	for q := 0; q <= 100; q++ {
		for _, g := range grades {
			d := Decompose(q, g)
			require.Equal(t, q, d.Sum(), "q=%d grade=%q", q, g)
			require.GreaterOrEqual(t, d.NutriscorePoints, 0)
			require.GreaterOrEqual(t, d.CompletenessPoints, 0)
			require.LessOrEqual(t, d.CompletenessPoints, MaxCompletenessPoints)
			require.GreaterOrEqual(t, d.NutritionPoints, 0)
		}
	}
}

func TestDecompose_ClampsOutOfRangeScore(t *testing.T) {
	assert.Equal(t, 100, Decompose(140, gateway.GradeA).QualityScore)
	assert.Equal(t, 0, Decompose(-5, gateway.GradeA).Sum())
}

// =============================================================================
// RANKING
// =============================================================================

func TestNewRanking_FirstEightInReceivedOrder(t *testing.T) {
	entries := make([]gateway.RankedEntry, 0, 10)
	for i := 0; i < 10; i++ {
		entries = append(entries, gateway.RankedEntry{Name: fmt.Sprintf("brand-%d", i), Count: (i%4 + 1) * 10})
	}
	entries[9].Count = 1000

	r := NewRanking(entries)
	require.Len(t, r.Rows, RankingLimit)
	for i, row := range r.Rows {
		assert.Equal(t, i+1, row.Position)
		assert.Equal(t, entries[i].Name, row.Name, "order must be preserved")
	}
	// The largest shown count is 40; the hidden 1000 is ignored.
	assert.InDelta(t, 100.0, r.Rows[3].Width, 1e-9)
	assert.InDelta(t, 25.0, r.Rows[0].Width, 1e-9)
}

func TestNewRanking_MinimumWidth(t *testing.T) {
	r := NewRanking([]gateway.RankedEntry{{Name: "big", Count: 500}, {Name: "tiny", Count: 1}, {Name: "none", Count: 0}})
	assert.Equal(t, 8.0, r.Rows[1].Width)
	assert.Equal(t, 8.0, r.Rows[2].Width)
}

func TestNewRanking_Empty(t *testing.T) {
	assert.True(t, NewRanking(nil).Empty())
}

// =============================================================================
// PRODUCT
// =============================================================================

func TestCompleteness(t *testing.T) {
	full := gateway.ProductSummary{
		ProductName: "Oat milk", BrandName: "Alpro", Categories: []string{"Drinks"},
		NutriscoreGrade: gateway.GradeB, NutrientCount: 4,
	}
	assert.Equal(t, 100, Completeness(full))

	assert.Equal(t, 0, Completeness(gateway.ProductSummary{}))
	assert.Equal(t, 20, Completeness(gateway.ProductSummary{ProductName: "x"}))

	unknownGrade := full
	unknownGrade.NutriscoreGrade = "unknown"
	assert.Equal(t, 80, Completeness(unknownGrade))
}

func TestTiers(t *testing.T) {
	assert.Equal(t, TierHigh, QualityTier(70))
	assert.Equal(t, TierMid, QualityTier(69))
	assert.Equal(t, TierMid, QualityTier(40))
	assert.Equal(t, TierLow, QualityTier(39))

	assert.Equal(t, TierHigh, AverageTier(60))
	assert.Equal(t, TierMid, AverageTier(59.9))
	assert.Equal(t, TierLow, AverageTier(39.9))

	assert.Equal(t, RarityLegendary, RarityOf(90))
	assert.Equal(t, RarityEpic, RarityOf(89))
	assert.Equal(t, RarityRare, RarityOf(50))
	assert.Equal(t, RarityCommon, RarityOf(30))
	assert.Equal(t, RarityBasic, RarityOf(29))
}

func TestNutrientIntake(t *testing.T) {
	intake := NutrientIntake([]gateway.Nutrient{
		{Name: "energy_kcal", Value: 200, Unit: "kcal"},
		{Name: "sugars", Value: 45, Unit: "g"},
		{Name: "salt", Value: 3, Unit: "g"},
		{Name: "iron", Value: 250, Unit: "mg"},
	})

	require.Len(t, intake, 4)
	assert.Equal(t, 10, intake[0].Percent)
	assert.Equal(t, TierLow, intake[0].Level)
	assert.Equal(t, 90, intake[1].Percent)
	assert.Equal(t, TierHigh, intake[1].Level)
	assert.Equal(t, 50, intake[2].Percent)
	assert.Equal(t, TierMid, intake[2].Level)
	assert.Equal(t, 100, intake[3].Percent, "capped at 100")
	assert.Equal(t, "iron", intake[3].Label)
	assert.Equal(t, "mg", intake[3].Unit)
}

func TestNewProductView_PrefersServiceCompleteness(t *testing.T) {
	served := 60
	p := gateway.ProductDetail{
		ProductSummary: gateway.ProductSummary{ProductName: "x", QualityScore: 75, NutriscoreGrade: gateway.GradeB},
		Completeness:   &served,
	}
	v := NewProductView(p)
	assert.Equal(t, 60, v.Completeness)
	assert.Equal(t, 22, v.Decomposition.CompletenessPoints)
	assert.Equal(t, RarityEpic, v.Rarity)

	p.Completeness = nil
	assert.Equal(t, 40, NewProductView(p).Completeness)
}

// =============================================================================
// PAGINATION
// =============================================================================

func TestPages(t *testing.T) {
	render := func(items []PageItem) string {
		s := ""
		for _, it := range items {
			if it.Gap {
				s += "… "
			} else {
				s += fmt.Sprintf("%d ", it.Number)
			}
		}
		return s
	}

	tests := []struct {
		page, total int
		want        string
	}{
		{1, 1, ""},
		{1, 0, ""},
		{1, 2, "1 2 "},
		{1, 5, "1 2 … 5 "},
		{3, 5, "1 2 3 4 5 "},
		{5, 10, "1 … 4 5 6 … 10 "},
		{10, 10, "1 … 9 10 "},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.page, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, render(Pages(tt.page, tt.total)))
		})
	}
}
