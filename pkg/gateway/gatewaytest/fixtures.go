// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gatewaytest

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// FixtureCount is the number of products returned by Fixtures.
const FixtureCount = 25

var fixtureBrands = []string{"Alpro", "Bonne Maman", "Carrefour", "Danone", "Evian"}

// Fixtures returns a deterministic product list. Product 1 is "Apple Juice"
// by Alpro with grade a; grades cycle a-e; product 25 has no grade.
func Fixtures() []gateway.ProductDetail {
	created := strfmt.DateTime(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	out := make([]gateway.ProductDetail, 0, FixtureCount)
	for i := 1; i <= FixtureCount; i++ {
		grade := gateway.Grades[(i-1)%len(gateway.Grades)]
		if i == FixtureCount {
			grade = gateway.GradeNone
		}
		name := fmt.Sprintf("Product %02d", i)
		if i == 1 {
			name = "Apple Juice"
		}
		score := 100 - 3*i
		nutrients := []gateway.Nutrient{
			{Name: "energy_kcal", Value: float64(40 * i), Unit: "kcal"},
			{Name: "sugars", Value: float64(i), Unit: "g"},
			{Name: "salt", Value: 0.1 * float64(i), Unit: "g"},
		}
		completeness := 100
		if grade == gateway.GradeNone {
			completeness = 80
		}
		out = append(out, gateway.ProductDetail{
			ProductSummary: gateway.ProductSummary{
				ID:              int64(i),
				Barcode:         fmt.Sprintf("3017620%06d", i),
				ProductName:     name,
				BrandName:       fixtureBrands[(i-1)%len(fixtureBrands)],
				NutriscoreGrade: grade,
				QualityScore:    score,
				Categories:      []string{"Beverages", fmt.Sprintf("Aisle %d", i%3)},
				Allergens:       []string{},
				NutrientCount:   len(nutrients),
				CategoryCount:   2,
			},
			Nutrients:    nutrients,
			CreatedAt:    created,
			Completeness: &completeness,
			Countries:    "France",
		})
	}
	return out
}

// FixtureStats returns the aggregate snapshot used by the fake service:
// {a:40, b:30, c:20, d:8, e:2} over 110 products.
func FixtureStats() gateway.AggregateStats {
	return gateway.AggregateStats{
		TotalProducts:   110,
		TotalBrands:     12,
		TotalCategories: 31,
		NutriscoreDistribution: map[gateway.Grade]int{
			gateway.GradeA: 40,
			gateway.GradeB: 30,
			gateway.GradeC: 20,
			gateway.GradeD: 8,
			gateway.GradeE: 2,
		},
		AvgQualityScore: 63.4,
		TopBrands: []gateway.RankedEntry{
			{Name: "Carrefour", Count: 18},
			{Name: "Danone", Count: 11},
			{Name: "Alpro", Count: 6},
		},
		TopCategories: []gateway.RankedEntry{
			{Name: "Beverages", Count: 44},
			{Name: "Snacks", Count: 21},
		},
	}
}
