// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package derive turns aggregate counts and product records into chart-ready
// view models.
//
// # Description
//
// Every function is pure and deterministic: identical inputs produce
// identical outputs, nothing is cached, and inputs are never mutated. View
// models are meant to be rebuilt from the latest snapshot on every render so
// that all numbers shown together share one denominator.
//
// # Rounding
//
// Whole-number results round half up (2.5 -> 3, -2.5 -> -2), matching the
// web dashboard so both front ends display identical figures.
package derive

import (
	"math"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// roundHalfUp rounds to the nearest integer with ties toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// gradePoints is the Nutri-Score share of the quality score.
var gradePoints = map[gateway.Grade]int{
	gateway.GradeA: 40,
	gateway.GradeB: 32,
	gateway.GradeC: 24,
	gateway.GradeD: 16,
	gateway.GradeE: 8,
}

// GradePoints returns the quality points awarded for grade g: a=40, b=32,
// c=24, d=16, e=8, anything else 0.
func GradePoints(g gateway.Grade) int {
	return gradePoints[g]
}

// GradeColor returns the official Nutri-Score colour, or a neutral grey for
// an unknown grade.
func GradeColor(g gateway.Grade) string {
	switch g {
	case gateway.GradeA:
		return "#038141"
	case gateway.GradeB:
		return "#85BB2F"
	case gateway.GradeC:
		return "#FECB02"
	case gateway.GradeD:
		return "#EE8100"
	case gateway.GradeE:
		return "#E63E11"
	default:
		return "#A8A29E"
	}
}

// GradeLabel returns the descriptive word for a grade.
func GradeLabel(g gateway.Grade) string {
	switch g {
	case gateway.GradeA:
		return "Excellent"
	case gateway.GradeB:
		return "Good"
	case gateway.GradeC:
		return "Fair"
	case gateway.GradeD:
		return "Poor"
	case gateway.GradeE:
		return "Bad"
	default:
		return "Not graded"
	}
}
