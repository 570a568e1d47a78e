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

import "github.com/AleutianAI/fooddata/pkg/gateway"

// Component ceilings of the quality score.
const (
	MaxNutriscorePoints   = 40
	MaxCompletenessPoints = 30
	MaxNutritionPoints    = 30
)

// Decomposition splits a quality score into its three parts.
//
// # Description
//
// This is an approximate inverse: the service does not publish the parts, so
// they are reconstructed from the score and grade alone. Completeness and
// nutrition are estimates and should be labelled as such.
type Decomposition struct {
	QualityScore       int
	NutriscorePoints   int
	CompletenessPoints int
	NutritionPoints    int
}

// Decompose splits qualityScore for a product of the given grade.
//
// # Description
//
// Order matters and is fixed:
//
//  1. nutriscore   = GradePoints(grade), capped at qualityScore
//  2. completeness = clamp(0, 30, round((qualityScore - nutriscore) * 0.5))
//  3. nutrition    = max(0, qualityScore - nutriscore - completeness)
//
// # Assumptions
//
// qualityScore is in [0, 100]; values outside are clamped first. The cap in
// step 1 only applies to scores below the grade's points, which the scoring
// formula does not produce; it keeps all three parts non-negative and
// summing exactly to qualityScore.
func Decompose(qualityScore int, grade gateway.Grade) Decomposition {
	q := clampInt(qualityScore, 0, 100)

	ns := GradePoints(grade)
	if ns > q {
		ns = q
	}
	comp := clampInt(roundHalfUp(float64(q-ns)*0.5), 0, MaxCompletenessPoints)
	nut := q - ns - comp
	if nut < 0 {
		nut = 0
	}

	return Decomposition{
		QualityScore:       q,
		NutriscorePoints:   ns,
		CompletenessPoints: comp,
		NutritionPoints:    nut,
	}
}

// Sum returns the total of the three parts.
func (d Decomposition) Sum() int {
	return d.NutriscorePoints + d.CompletenessPoints + d.NutritionPoints
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
