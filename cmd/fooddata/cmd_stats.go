// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.


package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/overview"
)

// statsOutput is the --json shape of the stats command.
type statsOutput struct {
	Stats       gateway.AggregateStats `json:"stats"`
	AvgTier     derive.Tier            `json:"avg_tier"`
	Graded      int                    `json:"graded"`
	Ungraded    int                    `json:"ungraded"`
	Consistent  bool                   `json:"consistent"`
	Dominant    gateway.Grade          `json:"dominant_grade"`
	DominantPct int                    `json:"dominant_pct"`
	GoodPct     int                    `json:"good_pct"`
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics: totals, Nutri-Score spread and top brands",
		Args:  cobra.NoArgs,
		RunE:  withApp(flags, false, runStats),
	}
}

func runStats(ctx context.Context, app *App, _ []string) error {
	loader := overview.NewStatsLoader(app.Gateway, app.Logger.Slog())

	var st overview.StatsState
	err := app.Printer.WithSpinner("Loading statistics", func() error {
		var err error
		st, err = loader.Load(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}

	if !st.Overview.Donut.Consistent() {
		app.Logger.Warn("inconsistent statistics snapshot",
			"total_products", st.Overview.TotalProducts,
			"graded", st.Overview.Donut.Graded)
	}

	if app.JSON {
		ov := st.Overview
		return writeJSON(app.Out(), statsOutput{
			Stats:       *st.Stats,
			AvgTier:     ov.AvgTier,
			Graded:      ov.Donut.Graded,
			Ungraded:    ov.Donut.Ungraded,
			Consistent:  ov.Donut.Consistent(),
			Dominant:    ov.Dominant,
			DominantPct: ov.DominantPct,
			GoodPct:     ov.GoodPct,
		})
	}
	app.Printer.Print(app.Printer.RenderOverview(st.Overview))
	return nil
}
