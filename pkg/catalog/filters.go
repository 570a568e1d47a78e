// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/fooddata/pkg/gateway"
)

// FilterKey names one field of FilterState.
type FilterKey string

const (
	KeySearch     FilterKey = "search"
	KeyGrade      FilterKey = "nutriscore"
	KeyBrand      FilterKey = "brand"
	KeyCategory   FilterKey = "category"
	KeyMinQuality FilterKey = "min_quality"
)

// ErrUnknownFilter is returned by UpdateFilter for an unrecognised key.
var ErrUnknownFilter = fmt.Errorf("unknown filter")

// ErrInvalidFilterValue is returned when a value cannot be parsed for its key.
var ErrInvalidFilterValue = fmt.Errorf("invalid filter value")

// Debounced reports whether changes to k wait for the quiet period before
// fetching. Only free-text fields are debounced.
func (k FilterKey) Debounced() bool {
	switch k {
	case KeySearch, KeyBrand, KeyCategory:
		return true
	}
	return false
}

// FilterState is the catalog filter set. The zero value is the default.
type FilterState struct {
	Search     string
	Grade      gateway.Grade
	Brand      string
	Category   string
	MinQuality int
}

// IsDefault reports whether no filter is active.
func (f FilterState) IsDefault() bool {
	return f == FilterState{}
}

// Get returns the display value of field k.
func (f FilterState) Get(k FilterKey) string {
	switch k {
	case KeySearch:
		return f.Search
	case KeyGrade:
		return string(f.Grade)
	case KeyBrand:
		return f.Brand
	case KeyCategory:
		return f.Category
	case KeyMinQuality:
		return strconv.Itoa(f.MinQuality)
	}
	return ""
}

// Tags describes the active filters for display, in a fixed order.
func (f FilterState) Tags() []string {
	var tags []string
	if f.Search != "" {
		tags = append(tags, fmt.Sprintf("search %q", f.Search))
	}
	if f.Grade != gateway.GradeNone {
		tags = append(tags, "nutri-score "+f.Grade.Upper())
	}
	if f.Brand != "" {
		tags = append(tags, "brand "+f.Brand)
	}
	if f.Category != "" {
		tags = append(tags, "category "+f.Category)
	}
	if f.MinQuality > 0 {
		tags = append(tags, fmt.Sprintf("quality >= %d", f.MinQuality))
	}
	return tags
}

// with returns f with field k set from raw.
//
// Free text is stored verbatim. Grades are validated and lowercased.
// Minimum quality is parsed as an integer and clamped to [0, 100]; an empty
// value means 0.
func (f FilterState) with(k FilterKey, raw string) (FilterState, error) {
	switch k {
	case KeySearch:
		f.Search = raw
	case KeyBrand:
		f.Brand = raw
	case KeyCategory:
		f.Category = raw
	case KeyGrade:
		g, err := gateway.ParseGrade(raw)
		if err != nil {
			return f, fmt.Errorf("%w: %v", ErrInvalidFilterValue, err)
		}
		f.Grade = g
	case KeyMinQuality:
		n := 0
		if s := strings.TrimSpace(raw); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return f, fmt.Errorf("%w: min_quality %q", ErrInvalidFilterValue, raw)
			}
			n = v
		}
		f.MinQuality = ClampQuality(n)
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownFilter, k)
	}
	return f, nil
}

// ParseFilters builds a FilterState from raw field values using the same
// rules as Controller.UpdateFilter. Missing keys keep their default.
func ParseFilters(raw map[FilterKey]string) (FilterState, error) {
	var f FilterState
	for _, k := range []FilterKey{KeySearch, KeyGrade, KeyBrand, KeyCategory, KeyMinQuality} {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var err error
		if f, err = f.with(k, v); err != nil {
			return FilterState{}, err
		}
	}
	for k := range raw {
		if _, err := (FilterState{}).with(k, ""); errors.Is(err, ErrUnknownFilter) {
			return FilterState{}, err
		}
	}
	return f, nil
}

// Query returns the product query for page of the filtered catalog.
func (f FilterState) Query(page int) gateway.ProductQuery {
	return gateway.ProductQuery{
		Page:       page,
		PageSize:   gateway.DefaultPageSize,
		Search:     f.Search,
		Grade:      f.Grade,
		Brand:      f.Brand,
		Category:   f.Category,
		MinQuality: f.MinQuality,
	}
}

// ClampQuality limits a minimum quality to [0, 100].
func ClampQuality(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
