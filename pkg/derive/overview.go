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

// Overview bundles every view model of the statistics page, all derived from
// the same snapshot.
type Overview struct {
	TotalProducts   int
	TotalBrands     int
	TotalCategories int
	AvgQualityScore float64
	AvgTier         Tier

	Donut     Donut
	Histogram Histogram

	Dominant    gateway.Grade
	DominantPct int
	GoodPct     int

	TopBrands     Ranking
	TopCategories Ranking
}

// NewOverview derives the statistics page from one stats snapshot.
func NewOverview(stats gateway.AggregateStats) Overview {
	return Overview{
		TotalProducts:   stats.TotalProducts,
		TotalBrands:     stats.TotalBrands,
		TotalCategories: stats.TotalCategories,
		AvgQualityScore: stats.AvgQualityScore,
		AvgTier:         AverageTier(stats.AvgQualityScore),
		Donut:           NewDonut(stats),
		Histogram:       NewHistogram(stats),
		Dominant:        Dominant(stats),
		DominantPct:     DominantPct(stats),
		GoodPct:         GoodPct(stats),
		TopBrands:       NewRanking(stats.TopBrands),
		TopCategories:   NewRanking(stats.TopCategories),
	}
}

// ProductView bundles the derived figures for one product detail.
type ProductView struct {
	Tier          Tier
	Rarity        Rarity
	Completeness  int
	Decomposition Decomposition
	Intake        []Intake
}

// NewProductView derives the detail panel of a product.
func NewProductView(p gateway.ProductDetail) ProductView {
	completeness := Completeness(p.ProductSummary)
	if p.Completeness != nil {
		completeness = *p.Completeness
	}
	return ProductView{
		Tier:          QualityTier(p.QualityScore),
		Rarity:        RarityOf(p.QualityScore),
		Completeness:  completeness,
		Decomposition: Decompose(p.QualityScore, p.NutriscoreGrade),
		Intake:        NutrientIntake(p.Nutrients),
	}
}
