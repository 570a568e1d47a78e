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

	"github.com/AleutianAI/fooddata/pkg/catalog"
	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/detail"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/validation"
)

// =============================================================================
// products
// =============================================================================

// productsFlags maps command flags to catalog filter keys.
var productsFlags = []struct {
	name  string
	key   catalog.FilterKey
	usage string
}{
	{"search", catalog.KeySearch, "match product names"},
	{"grade", catalog.KeyGrade, "Nutri-Score grade a-e"},
	{"brand", catalog.KeyBrand, "brand name"},
	{"category", catalog.KeyCategory, "category name"},
	{"min-quality", catalog.KeyMinQuality, "minimum quality score 0-100"},
}

func newProductsCmd(flags *rootFlags) *cobra.Command {
	var page int
	values := make([]string, len(productsFlags))

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List one page of products matching the filters",
		Example: `  fooddata products --search apple
  fooddata products --grade a --min-quality 70 --page 2`,
		Args: cobra.NoArgs,
	}
	for i, f := range productsFlags {
		cmd.Flags().StringVar(&values[i], f.name, "", f.usage)
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")

	cmd.RunE = withApp(flags, false, func(ctx context.Context, app *App, _ []string) error {
		raw := map[catalog.FilterKey]string{}
		for i, f := range productsFlags {
			if cmd.Flags().Changed(f.name) {
				raw[f.key] = values[i]
			}
		}
		filters, err := catalog.ParseFilters(raw)
		if err != nil {
			return err
		}
		return runProducts(ctx, app, filters, page)
	})
	return cmd
}

func runProducts(ctx context.Context, app *App, filters catalog.FilterState, page int) error {
	q := filters.Query(page)
	if err := q.Validate(); err != nil {
		return err
	}

	var result *gateway.ProductPage
	err := app.Printer.WithSpinner("Loading products", func() error {
		var err error
		result, err = app.Gateway.Products(ctx, q)
		return err
	})
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	res := result.Normalize()

	if app.JSON {
		return writeJSON(app.Out(), res)
	}
	if page > res.TotalPages {
		app.Printer.Warning(fmt.Sprintf("page %d is past the last page (%d)", page, res.TotalPages))
	}
	app.Printer.Print(app.Printer.RenderProductPage(res, filters.Tags(), -1))
	return nil
}

// =============================================================================
// product
// =============================================================================

// productOutput is the --json shape of the product command.
type productOutput struct {
	Product      gateway.ProductDetail `json:"product"`
	Tier         derive.Tier           `json:"tier"`
	Rarity       derive.Rarity         `json:"rarity"`
	Completeness int                   `json:"completeness"`
	Points       pointsOutput          `json:"points"`
	Intake       []intakeOutput        `json:"intake,omitempty"`
}

type pointsOutput struct {
	Nutriscore   int `json:"nutriscore"`
	Completeness int `json:"completeness"`
	Nutrition    int `json:"nutrition"`
}

type intakeOutput struct {
	Name    string      `json:"name"`
	Value   float64     `json:"value"`
	Unit    string      `json:"unit"`
	Percent int         `json:"percent"`
	Level   derive.Tier `json:"level"`
}

func newProductCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product with its score breakdown",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(flags, false, runProduct),
	}
}

func runProduct(ctx context.Context, app *App, args []string) error {
	id, err := validation.ParseProductID(args[0])
	if err != nil {
		return err
	}

	lookup := detail.NewLookup(app.Gateway, app.Logger.Slog(), nil)
	defer lookup.Close()

	var st detail.State
	_ = app.Printer.WithSpinner("Loading product", func() error {
		<-lookup.Open(ctx, id)
		st = lookup.State()
		return st.Err
	})
	switch {
	case st.NotFound:
		return fmt.Errorf("product %d not found", id)
	case st.Failed():
		return fmt.Errorf("load product %d: %w", id, st.Err)
	case st.Data == nil:
		return fmt.Errorf("load product %d: no data", id)
	}

	view := derive.NewProductView(*st.Data)
	if app.JSON {
		out := productOutput{
			Product:      *st.Data,
			Tier:         view.Tier,
			Rarity:       view.Rarity,
			Completeness: view.Completeness,
			Points: pointsOutput{
				Nutriscore:   view.Decomposition.NutriscorePoints,
				Completeness: view.Decomposition.CompletenessPoints,
				Nutrition:    view.Decomposition.NutritionPoints,
			},
		}
		for _, in := range view.Intake {
			out.Intake = append(out.Intake, intakeOutput{
				Name: in.Name, Value: in.Value, Unit: in.Unit, Percent: in.Percent, Level: in.Level,
			})
		}
		return writeJSON(app.Out(), out)
	}
	app.Printer.Print(app.Printer.RenderProduct(*st.Data, view))
	return nil
}
