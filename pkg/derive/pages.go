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

// PageItem is one slot of a pagination bar: a page number or a gap.
type PageItem struct {
	Number int
	Gap    bool
}

// Pages returns the pagination bar for page out of total.
//
// The bar always shows the first and last page and the neighbours of the
// current page, with a gap where pages are skipped:
//
//	Pages(5, 10) -> 1 … 4 5 6 … 10
//
// It returns nil when total <= 1, since there is nothing to navigate.
func Pages(page, total int) []PageItem {
	if total <= 1 {
		return nil
	}

	items := []PageItem{{Number: 1}}
	if page > 3 {
		items = append(items, PageItem{Gap: true})
	}
	for i := max(2, page-1); i <= min(total-1, page+1); i++ {
		items = append(items, PageItem{Number: i})
	}
	if page < total-2 {
		items = append(items, PageItem{Gap: true})
	}
	return append(items, PageItem{Number: total})
}
