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

// minBucketHeight is the smallest bar height, in percent.
const minBucketHeight = 6.0

// Bucket is one quality-score range of the histogram.
type Bucket struct {
	Label  string
	Color  string
	Count  int
	Height float64
}

// Histogram approximates the spread of quality scores.
//
// # Limitations
//
// The service only publishes per-grade counts, not individual scores, so the
// five buckets are a proxy built from the grade histogram:
//
//	 0-20   count[e]
//	21-40   round(0.8 * count[d])
//	41-60   count[c]
//	61-80   round(1.1 * count[b])
//	81-100  count[a]
//
// It is a display heuristic and makes no statistical claim. The bucket
// counts need not sum to the graded total.
type Histogram struct {
	Buckets []Bucket
}

// NewHistogram builds the approximate quality histogram from stats.
// Heights are relative to the largest bucket (at least 1) and never drop
// below 6 percent.
func NewHistogram(stats gateway.AggregateStats) Histogram {
	buckets := []Bucket{
		{Label: "0-20", Color: GradeColor(gateway.GradeE), Count: stats.Count(gateway.GradeE)},
		{Label: "21-40", Color: GradeColor(gateway.GradeD), Count: roundHalfUp(float64(stats.Count(gateway.GradeD)) * 0.8)},
		{Label: "41-60", Color: GradeColor(gateway.GradeC), Count: stats.Count(gateway.GradeC)},
		{Label: "61-80", Color: GradeColor(gateway.GradeB), Count: roundHalfUp(float64(stats.Count(gateway.GradeB)) * 1.1)},
		{Label: "81-100", Color: GradeColor(gateway.GradeA), Count: stats.Count(gateway.GradeA)},
	}

	maxCount := 1
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	for i := range buckets {
		buckets[i].Height = math.Max(float64(buckets[i].Count)/float64(maxCount)*100, minBucketHeight)
	}
	return Histogram{Buckets: buckets}
}
