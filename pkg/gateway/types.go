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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// GRADES
// =============================================================================

// Grade is a Nutri-Score letter. The zero value means "no grade".
type Grade string

const (
	GradeNone Grade = ""
	GradeA    Grade = "a"
	GradeB    Grade = "b"
	GradeC    Grade = "c"
	GradeD    Grade = "d"
	GradeE    Grade = "e"
)

// Grades lists the real grades in display order. Every derived structure
// walks grades in this order.
var Grades = []Grade{GradeA, GradeB, GradeC, GradeD, GradeE}

// ErrInvalidGrade is returned by ParseGrade for anything other than "" or a-e.
var ErrInvalidGrade = fmt.Errorf("invalid nutriscore grade")

// ParseGrade accepts "", "a".."e" in any case, with surrounding spaces.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToLower(strings.TrimSpace(s)))
	if g == GradeNone || g.Valid() {
		return g, nil
	}
	return GradeNone, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// Valid reports whether g is one of a-e.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return true
	}
	return false
}

// Upper returns the letter as shown to users, or "?" for no grade.
func (g Grade) Upper() string {
	if !g.Valid() {
		return "?"
	}
	return strings.ToUpper(string(g))
}

// =============================================================================
// RESPONSE MODELS
// =============================================================================

// RankedEntry is one row of a top-N list.
type RankedEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AggregateStats is the /stats snapshot. It is never mutated after decoding.
type AggregateStats struct {
	TotalProducts          int           `json:"total_products"`
	TotalBrands            int           `json:"total_brands"`
	TotalCategories        int           `json:"total_categories"`
	NutriscoreDistribution map[Grade]int `json:"nutriscore_distribution"`
	AvgQualityScore        float64       `json:"avg_quality_score"`
	TopBrands              []RankedEntry `json:"top_brands"`
	TopCategories          []RankedEntry `json:"top_categories"`
}

// Count returns the number of products with grade g.
func (s AggregateStats) Count(g Grade) int {
	return s.NutriscoreDistribution[g]
}

// ProductSummary is a product row from a /products page.
type ProductSummary struct {
	ID              int64    `json:"id"`
	Barcode         string   `json:"barcode"`
	ProductName     string   `json:"product_name"`
	BrandName       string   `json:"brand_name"`
	NutriscoreGrade Grade    `json:"nutriscore_grade"`
	NutriscoreScore *int     `json:"nutriscore_score"`
	QualityScore    int      `json:"quality_score"`
	HasImage        bool     `json:"has_image"`
	ImageURL        string   `json:"image_url"`
	Categories      []string `json:"categories"`
	Allergens       []string `json:"allergens"`
	NutrientCount   int      `json:"nutrient_count"`
	AllergenCount   int      `json:"allergen_count"`
	CategoryCount   int      `json:"category_count"`
}

// Nutrient is a single measured nutrient value per 100g.
type Nutrient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ProductDetail is the /products/{id} record.
type ProductDetail struct {
	ProductSummary
	Nutrients    []Nutrient      `json:"nutrients"`
	CreatedAt    strfmt.DateTime `json:"created_at"`
	Completeness *int            `json:"completeness"`
	Countries    string          `json:"countries"`
}

// ProductPage is one page of /products results.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Normalize returns p with TotalPages of at least 1 and a non-nil Items
// slice. The service reports zero pages for an empty result.
func (p ProductPage) Normalize() ProductPage {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.Items == nil {
		p.Items = []ProductSummary{}
	}
	return p
}

// =============================================================================
// QUERY
// =============================================================================

// DefaultPageSize is the fixed catalog page size.
const DefaultPageSize = 20

// MaxPageSize is the largest page the service accepts.
const MaxPageSize = 100

// ProductQuery selects one page of products.
type ProductQuery struct {
	Page       int    `validate:"gte=1"`
	PageSize   int    `validate:"gte=1,lte=100"`
	Search     string `validate:"max=200"`
	Grade      Grade  `validate:"omitempty,oneof=a b c d e"`
	Brand      string `validate:"max=200"`
	Category   string `validate:"max=200"`
	MinQuality int    `validate:"gte=0,lte=100"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the query against the service's parameter bounds.
func (q ProductQuery) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid product query: %w", err)
	}
	return nil
}

// Values encodes q as URL parameters. Page and page size are always sent;
// every other field only when it differs from its default. MinQuality is
// sent only when positive.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("page_size", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Grade != GradeNone {
		v.Set("nutriscore", string(q.Grade))
	}
	if q.Brand != "" {
		v.Set("brand", q.Brand)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinQuality > 0 {
		v.Set("min_quality", strconv.Itoa(q.MinQuality))
	}
	return v
}
