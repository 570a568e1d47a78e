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
	"math"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// =============================================================================
// DONUT GEOMETRY
// =============================================================================

const (
	// DonutRadius is the radius of the grade ring in viewBox units.
	DonutRadius = 52.0

	// ArcGap is subtracted from every arc so neighbours never touch.
	ArcGap = 2.0

	// minShareBar is the smallest legend bar width, in percent.
	minShareBar = 3.0
)

// Circumference of the grade ring.
var Circumference = 2 * math.Pi * DonutRadius

// Share is one grade's slice of the graded population.
type Share struct {
	Grade gateway.Grade
	Count int

	// Fraction is Count/graded, or 0 when nothing is graded.
	Fraction float64

	// Percent is Fraction as a whole-number percentage for labels.
	Percent int

	// BarWidth is the legend bar width in percent of the largest count,
	// never below 3.
	BarWidth float64
}

// Arc is one grade's stroke on the ring. Offset is the distance along the
// circumference where the arc starts.
type Arc struct {
	Grade  gateway.Grade
	Offset float64
	Length float64
}

// Donut is the grade distribution view model.
//
// # Description
//
// Percentages use the graded count (sum of a-e) as denominator, never
// TotalProducts. Shares and Arcs are always in a, b, c, d, e order.
type Donut struct {
	TotalProducts int
	Graded        int

	// Ungraded is TotalProducts - Graded. It is not clamped: a negative
	// value means the snapshot is inconsistent.
	Ungraded int

	Shares []Share
	Arcs   []Arc
}

// Consistent reports whether the snapshot's totals agree with its grade
// counts.
func (d Donut) Consistent() bool {
	return d.Ungraded >= 0
}

// Graded returns the number of products carrying a grade a-e.
func Graded(stats gateway.AggregateStats) int {
	n := 0
	for _, g := range gateway.Grades {
		n += stats.Count(g)
	}
	return n
}

// NewDonut builds the distribution view model.
//
// # Description
//
// Arcs are laid out by walking grades in fixed order: each arc starts where
// the previous full share ended and is shortened by ArcGap (to no less than
// zero), so arcs never overlap.
func NewDonut(stats gateway.AggregateStats) Donut {
	graded := Graded(stats)
	d := Donut{
		TotalProducts: stats.TotalProducts,
		Graded:        graded,
		Ungraded:      stats.TotalProducts - graded,
		Shares:        make([]Share, 0, len(gateway.Grades)),
		Arcs:          make([]Arc, 0, len(gateway.Grades)),
	}

	maxCount := 1
	for _, g := range gateway.Grades {
		if c := stats.Count(g); c > maxCount {
			maxCount = c
		}
	}

	offset := 0.0
	for _, g := range gateway.Grades {
		count := stats.Count(g)
		frac := 0.0
		if graded > 0 {
			frac = float64(count) / float64(graded)
		}

		d.Shares = append(d.Shares, Share{
			Grade:    g,
			Count:    count,
			Fraction: frac,
			Percent:  roundHalfUp(frac * 100),
			BarWidth: math.Max(float64(count)/float64(maxCount)*100, minShareBar),
		})

		length := frac * Circumference
		d.Arcs = append(d.Arcs, Arc{
			Grade:  g,
			Offset: offset,
			Length: math.Max(length-ArcGap, 0),
		})
		offset += length
	}
	return d
}

// =============================================================================
// INSIGHTS
// =============================================================================

// Dominant returns the grade with the highest count. Ties go to the earlier
// grade in a..e; an empty distribution yields "a".
func Dominant(stats gateway.AggregateStats) gateway.Grade {
	best := gateway.GradeA
	for _, g := range gateway.Grades {
		if stats.Count(g) > stats.Count(best) {
			best = g
		}
	}
	return best
}

// DominantPct is the dominant grade's share of graded products, rounded.
func DominantPct(stats gateway.AggregateStats) int {
	return pctOfGraded(stats.Count(Dominant(stats)), Graded(stats))
}

// GoodPct is the share of graded products rated a or b, rounded.
func GoodPct(stats gateway.AggregateStats) int {
	return pctOfGraded(stats.Count(gateway.GradeA)+stats.Count(gateway.GradeB), Graded(stats))
}

func pctOfGraded(n, graded int) int {
	if graded == 0 {
		return 0
	}
	return roundHalfUp(float64(n) / float64(graded) * 100)
}
