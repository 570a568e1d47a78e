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
// COMPLETENESS
// =============================================================================

// Completeness estimates how much of a product record is filled in, as a
// rounded percentage over five fields: name, brand, at least one category,
// a grade a-e, and at least one nutrient.
func Completeness(p gateway.ProductSummary) int {
	fields := []bool{
		p.ProductName != "",
		p.BrandName != "",
		len(p.Categories) > 0,
		p.NutriscoreGrade.Valid(),
		p.NutrientCount > 0,
	}
	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return roundHalfUp(float64(filled) / float64(len(fields)) * 100)
}

// =============================================================================
// TIERS
// =============================================================================

// Tier buckets a score for colouring.
type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

// QualityTier classifies a product quality score: >=70 high, >=40 mid.
func QualityTier(q int) Tier {
	switch {
	case q >= 70:
		return TierHigh
	case q >= 40:
		return TierMid
	default:
		return TierLow
	}
}

// AverageTier classifies the catalog average: >=60 high, >=40 mid.
func AverageTier(avg float64) Tier {
	switch {
	case avg >= 60:
		return TierHigh
	case avg >= 40:
		return TierMid
	default:
		return TierLow
	}
}

// Rarity is the collectible-card tier shown on product cards.
type Rarity string

const (
	RarityLegendary Rarity = "legendary"
	RarityEpic      Rarity = "epic"
	RarityRare      Rarity = "rare"
	RarityCommon    Rarity = "common"
	RarityBasic     Rarity = "basic"
)

// RarityOf maps a quality score to a card rarity.
func RarityOf(q int) Rarity {
	switch {
	case q >= 90:
		return RarityLegendary
	case q >= 70:
		return RarityEpic
	case q >= 50:
		return RarityRare
	case q >= 30:
		return RarityCommon
	default:
		return RarityBasic
	}
}

// =============================================================================
// DAILY INTAKE
// =============================================================================

// Reference is a daily intake reference for one nutrient.
type Reference struct {
	Label  string
	Amount float64
	Unit   string
}

// References are adult daily intake references keyed by nutrient name.
var References = map[string]Reference{
	"energy_kcal":   {Label: "Energy", Amount: 2000, Unit: "kcal"},
	"fat":           {Label: "Fat", Amount: 70, Unit: "g"},
	"saturated_fat": {Label: "Saturated fat", Amount: 20, Unit: "g"},
	"sugars":        {Label: "Sugars", Amount: 50, Unit: "g"},
	"salt":          {Label: "Salt", Amount: 6, Unit: "g"},
	"proteins":      {Label: "Proteins", Amount: 50, Unit: "g"},
	"fiber":         {Label: "Fiber", Amount: 25, Unit: "g"},
}

// fallbackReference applies to nutrients missing from References.
const fallbackReference = 100.0

// Intake is one nutrient's share of its daily reference.
type Intake struct {
	Name    string
	Label   string
	Value   float64
	Unit    string
	Percent int
	Level   Tier
}

// NutrientIntake computes each nutrient's share of its daily reference.
//
// # Description
//
// Percent is min(100, round(value/reference*100)). Level is high above 75,
// mid above 40, low otherwise. Unknown nutrients use a reference of 100 in
// their own unit. Order follows the input.
func NutrientIntake(nutrients []gateway.Nutrient) []Intake {
	out := make([]Intake, 0, len(nutrients))
	for _, n := range nutrients {
		ref, ok := References[n.Name]
		if !ok {
			ref = Reference{Label: n.Name, Amount: fallbackReference, Unit: n.Unit}
		}
		pct := int(math.Min(100, float64(roundHalfUp(n.Value/ref.Amount*100))))

		level := TierLow
		switch {
		case pct > 75:
			level = TierHigh
		case pct > 40:
			level = TierMid
		}

		unit := ref.Unit
		if unit == "" {
			unit = n.Unit
		}
		out = append(out, Intake{
			Name:    n.Name,
			Label:   ref.Label,
			Value:   n.Value,
			Unit:    unit,
			Percent: pct,
			Level:   level,
		})
	}
	return out
}
