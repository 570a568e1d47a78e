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

const (
	// RankingLimit is the number of entries shown in a ranking.
	RankingLimit = 8

	// minRankBar is the smallest ranking bar width, in percent.
	minRankBar = 8.0
)

// Rank is one shown ranking row.
type Rank struct {
	Position int
	Name     string
	Count    int
	Width    float64
}

// Ranking is a top-N bar list.
type Ranking struct {
	Rows []Rank
}

// Empty reports whether there is nothing to show.
func (r Ranking) Empty() bool {
	return len(r.Rows) == 0
}

// NewRanking takes the first RankingLimit entries in the order received.
// Entries are not sorted here; ordering is the producer's job. Widths are
// relative to the largest count among the shown rows (at least 1) and never
// drop below 8 percent.
func NewRanking(entries []gateway.RankedEntry) Ranking {
	n := len(entries)
	if n > RankingLimit {
		n = RankingLimit
	}
	shown := entries[:n]

	maxCount := 1
	for _, e := range shown {
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}

	rows := make([]Rank, 0, n)
	for i, e := range shown {
		rows = append(rows, Rank{
			Position: i + 1,
			Name:     e.Name,
			Count:    e.Count,
			Width:    math.Max(float64(e.Count)/float64(maxCount)*100, minRankBar),
		})
	}
	return Ranking{Rows: rows}
}
