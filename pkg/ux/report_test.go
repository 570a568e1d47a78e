// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package ux

import (
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/overview"
)

func sampleStats() gateway.AggregateStats {
	return gateway.AggregateStats{
		TotalProducts:   110,
		TotalBrands:     12,
		TotalCategories: 7,
		AvgQualityScore: 63.4,
		NutriscoreDistribution: map[gateway.Grade]int{
			gateway.GradeA: 40, gateway.GradeB: 30, gateway.GradeC: 20,
			gateway.GradeD: 8, gateway.GradeE: 2,
		},
		TopBrands:     []gateway.RankedEntry{{Name: "Carrefour", Count: 18}, {Name: "Danone", Count: 11}},
		TopCategories: nil,
	}
}

func TestRenderOverview_Plain(t *testing.T) {
	p, _, _ := newTestPrinter(ModePlain)
	got := p.RenderOverview(derive.NewOverview(sampleStats()))

	for _, want := range []string{
		"Products 110",
		"Nutri-Score distribution (100 graded, 10 ungraded)",
		"[A] Excellent",
		"81-100",
		"Top brands",
		"Carrefour",
		"Top categories",
		"no data",
		"Most products are graded [A] (40% of graded products)",
		"70% are graded A or B",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("overview lacks %q:\n%s", want, got)
		}
	}
}

func TestRenderOverview_Inconsistent(t *testing.T) {
	stats := sampleStats()
	stats.TotalProducts = 90
	p, _, _ := newTestPrinter(ModePlain)

	got := p.RenderOverview(derive.NewOverview(stats))
	if !strings.Contains(got, "grade counts exceed the product total") {
		t.Errorf("expected inconsistency warning:\n%s", got)
	}
}

func TestRenderOverview_Machine(t *testing.T) {
	p, _, _ := newTestPrinter(ModeMachine)
	got := p.RenderOverview(derive.NewOverview(sampleStats()))

	for _, want := range []string{
		"total_products\t110",
		"grade\ta\t40\t40",
		"bucket\t21-40\t6",
		"brand\t1\tCarrefour\t18",
		"dominant\ta\t40",
		"good_pct\t70",
	} {
		if !strings.Contains(got, want+"\n") && !strings.HasSuffix(got, want) {
			t.Errorf("machine overview lacks %q:\n%s", want, got)
		}
	}
}

func TestRenderProductPage(t *testing.T) {
	page := gateway.ProductPage{
		Items: []gateway.ProductSummary{
			{ID: 1, ProductName: "Apple Juice", BrandName: "Alpro", NutriscoreGrade: gateway.GradeA, QualityScore: 97},
			{ID: 2, ProductName: "", BrandName: "Danone", QualityScore: 12},
		},
		Total: 200, Page: 5, PageSize: 20, TotalPages: 10,
	}
	p, _, _ := newTestPrinter(ModePlain)
	got := p.RenderProductPage(page, []string{"nutri-score A"}, 0)

	for _, want := range []string{
		"200 results, page 5 of 10",
		"filters: nutri-score A",
		"→ [A] Apple Juice",
		"[?] (unnamed)",
		"1 … 4 [5] 6 … 10",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page lacks %q:\n%s", want, got)
		}
	}
}

func TestRenderProductPage_Empty(t *testing.T) {
	p, _, _ := newTestPrinter(ModePlain)
	got := p.RenderProductPage(gateway.ProductPage{Page: 1, TotalPages: 1}, nil, -1)
	if !strings.Contains(got, "No products match these filters.") {
		t.Errorf("empty page = %q", got)
	}
	if strings.Contains(got, "[1]") {
		t.Error("single page must not show a pagination bar")
	}
}

func TestRenderProductPage_Machine(t *testing.T) {
	p, _, _ := newTestPrinter(ModeMachine)
	got := p.RenderProductPage(gateway.ProductPage{Items: []gateway.ProductSummary{
		{ID: 9, ProductName: "Oat Drink", BrandName: "Oatly", NutriscoreGrade: gateway.GradeB, QualityScore: 80},
	}}, nil, -1)
	if got != "9\tOat Drink\tOatly\tb\t80" {
		t.Errorf("machine page = %q", got)
	}
}

func TestRenderProduct(t *testing.T) {
	score := -2
	d := gateway.ProductDetail{
		ProductSummary: gateway.ProductSummary{
			ID: 1, Barcode: "3017620422003", ProductName: "Apple Juice", BrandName: "Alpro",
			NutriscoreGrade: gateway.GradeA, NutriscoreScore: &score, QualityScore: 97,
			Categories: []string{"Beverages"}, Allergens: []string{"soy"},
		},
		Nutrients: []gateway.Nutrient{{Name: "sugars", Value: 45, Unit: "g"}},
		Countries: "France",
		CreatedAt: strfmt.DateTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}
	p, _, _ := newTestPrinter(ModePlain)
	got := p.RenderProduct(d, derive.NewProductView(d))

	for _, want := range []string{
		"Apple Juice",
		"Alpro · barcode 3017620422003 · #1",
		"[A] Excellent (score -2)",
		"97/100 legendary",
		"Nutri-Score",
		"40/40",
		"est.",
		"Sugars",
		"90%",
		"Allergens  soy",
		"2024-03-01",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("detail lacks %q:\n%s", want, got)
		}
	}
}

func TestRenderProduct_Machine(t *testing.T) {
	d := gateway.ProductDetail{ProductSummary: gateway.ProductSummary{ID: 3, NutriscoreGrade: gateway.GradeC, QualityScore: 60}}
	p, _, _ := newTestPrinter(ModeMachine)
	got := p.RenderProduct(d, derive.NewProductView(d))
	if !strings.Contains(got, "points\t24\t18\t18") {
		t.Errorf("machine detail = %q", got)
	}
}

func TestRenderHealth(t *testing.T) {
	p, _, _ := newTestPrinter(ModePlain)
	if got := p.RenderHealth(overview.HealthUp); got != "● online" {
		t.Errorf("up = %q", got)
	}
	if got := p.RenderHealth(overview.HealthUnknown); got != "○ checking" {
		t.Errorf("unknown = %q", got)
	}
	m, _, _ := newTestPrinter(ModeMachine)
	if got := m.RenderHealth(overview.HealthDown); got != "offline" {
		t.Errorf("machine down = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Pâte à tartiner", 6); got != "Pâte …" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}
