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
	"fmt"
	"strings"
	"time"

	"github.com/AleutianAI/fooddata/pkg/derive"
	"github.com/AleutianAI/fooddata/pkg/gateway"
	"github.com/AleutianAI/fooddata/pkg/overview"
)

// barWidth is the width of report bars in cells.
const barWidth = 24

// =============================================================================
// Overview
// =============================================================================

// RenderOverview renders the statistics page.
func (p *Printer) RenderOverview(ov derive.Overview) string {
	if p.mode == ModeMachine {
		return machineOverview(ov)
	}
	s := p.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Food data overview"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s   %s %s   %s %s   %s %s\n",
		s.Muted.Render("Products"), s.Bold.Render(fmt.Sprint(ov.TotalProducts)),
		s.Muted.Render("Brands"), s.Bold.Render(fmt.Sprint(ov.TotalBrands)),
		s.Muted.Render("Categories"), s.Bold.Render(fmt.Sprint(ov.TotalCategories)),
		s.Muted.Render("Avg quality"), s.Tier(ov.AvgTier, fmt.Sprintf("%.1f", ov.AvgQualityScore)),
	)

	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Nutri-Score distribution (%d graded, %d ungraded)",
		ov.Donut.Graded, ov.Donut.Ungraded)))
	b.WriteString("\n")
	for _, sh := range ov.Donut.Shares {
		fmt.Fprintf(&b, "  %s %-10s %s %5d %4d%%\n",
			s.Grade(sh.Grade), derive.GradeLabel(sh.Grade),
			s.Bar(sh.BarWidth, barWidth, derive.GradeColor(sh.Grade)),
			sh.Count, sh.Percent)
	}
	if !ov.Donut.Consistent() {
		b.WriteString("  ")
		b.WriteString(s.Warning.Render("grade counts exceed the product total"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Quality score spread (approximate)"))
	b.WriteString("\n")
	for _, bk := range ov.Histogram.Buckets {
		fmt.Fprintf(&b, "  %-7s %s %5d\n", bk.Label, s.Bar(bk.Height, barWidth, bk.Color), bk.Count)
	}

	b.WriteString(p.renderRanking("Top brands", ov.TopBrands))
	b.WriteString(p.renderRanking("Top categories", ov.TopCategories))

	if ov.Donut.Graded > 0 {
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render("Insights"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s Most products are graded %s (%d%% of graded products)\n",
			IconBullet, s.Grade(ov.Dominant), ov.DominantPct)
		fmt.Fprintf(&b, "  %s %d%% are graded A or B\n", IconBullet, ov.GoodPct)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Printer) renderRanking(title string, r derive.Ranking) string {
	s := p.styles
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(title))
	b.WriteString("\n")
	if r.Empty() {
		b.WriteString("  ")
		b.WriteString(s.Muted.Render("no data"))
		b.WriteString("\n")
		return b.String()
	}
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "  %2d. %-22s %s %5d\n",
			row.Position, truncate(row.Name, 22),
			s.Bar(row.Width, barWidth, string(s.Palette.Accent)), row.Count)
	}
	return b.String()
}

func machineOverview(ov derive.Overview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "total_products\t%d\n", ov.TotalProducts)
	fmt.Fprintf(&b, "total_brands\t%d\n", ov.TotalBrands)
	fmt.Fprintf(&b, "total_categories\t%d\n", ov.TotalCategories)
	fmt.Fprintf(&b, "avg_quality_score\t%.1f\n", ov.AvgQualityScore)
	fmt.Fprintf(&b, "graded\t%d\n", ov.Donut.Graded)
	fmt.Fprintf(&b, "ungraded\t%d\n", ov.Donut.Ungraded)
	for _, sh := range ov.Donut.Shares {
		fmt.Fprintf(&b, "grade\t%s\t%d\t%d\n", sh.Grade, sh.Count, sh.Percent)
	}
	for _, bk := range ov.Histogram.Buckets {
		fmt.Fprintf(&b, "bucket\t%s\t%d\n", bk.Label, bk.Count)
	}
	for _, row := range ov.TopBrands.Rows {
		fmt.Fprintf(&b, "brand\t%d\t%s\t%d\n", row.Position, row.Name, row.Count)
	}
	for _, row := range ov.TopCategories.Rows {
		fmt.Fprintf(&b, "category\t%d\t%s\t%d\n", row.Position, row.Name, row.Count)
	}
	if ov.Donut.Graded > 0 {
		fmt.Fprintf(&b, "dominant\t%s\t%d\n", ov.Dominant, ov.DominantPct)
		fmt.Fprintf(&b, "good_pct\t%d\n", ov.GoodPct)
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// Product list
// =============================================================================

// RenderProductPage renders one page of products. selected is the index of
// the highlighted row, or -1.
func (p *Printer) RenderProductPage(page gateway.ProductPage, tags []string, selected int) string {
	if p.mode == ModeMachine {
		var b strings.Builder
		for _, it := range page.Items {
			fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%d\n", it.ID, it.ProductName, it.BrandName, it.NutriscoreGrade, it.QualityScore)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	s := p.styles
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		s.Title.Render("Products"),
		s.Muted.Render(fmt.Sprintf("%d results, page %d of %d", page.Total, page.Page, max(page.TotalPages, 1))))
	if len(tags) > 0 {
		b.WriteString(s.Muted.Render("  filters: " + strings.Join(tags, ", ")))
		b.WriteString("\n")
	}

	if len(page.Items) == 0 {
		b.WriteString("\n  ")
		b.WriteString(s.Muted.Render("No products match these filters."))
		return b.String()
	}

	b.WriteString("\n")
	for i, it := range page.Items {
		name := truncate(it.ProductName, 34)
		if name == "" {
			name = "(unnamed)"
		}
		line := fmt.Sprintf("%s %-34s %-18s %s",
			s.Grade(it.NutriscoreGrade), name, truncate(it.BrandName, 18),
			s.Tier(derive.QualityTier(it.QualityScore), fmt.Sprintf("%3d", it.QualityScore)))
		if i == selected {
			line = s.Highlight.Render(string(IconArrow)) + " " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if bar := p.RenderPages(page.Page, page.TotalPages); bar != "" {
		b.WriteString("\n  ")
		b.WriteString(bar)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPages renders the pagination bar, or "" for a single page.
func (p *Printer) RenderPages(page, total int) string {
	items := derive.Pages(page, total)
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Gap:
			parts = append(parts, p.styles.Muted.Render("…"))
		case it.Number == page:
			parts = append(parts, p.styles.Highlight.Render(fmt.Sprintf("[%d]", it.Number)))
		default:
			parts = append(parts, fmt.Sprint(it.Number))
		}
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Product detail
// =============================================================================

// RenderProduct renders the detail panel of one product.
func (p *Printer) RenderProduct(d gateway.ProductDetail, v derive.ProductView) string {
	if p.mode == ModeMachine {
		return machineProduct(d, v)
	}
	s := p.styles
	var b strings.Builder

	name := d.ProductName
	if name == "" {
		name = "(unnamed)"
	}
	b.WriteString(s.Title.Render(name))
	b.WriteString("\n")
	meta := []string{}
	if d.BrandName != "" {
		meta = append(meta, d.BrandName)
	}
	if d.Barcode != "" {
		meta = append(meta, "barcode "+d.Barcode)
	}
	meta = append(meta, fmt.Sprintf("#%d", d.ID))
	b.WriteString(s.Muted.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  Nutri-Score  %s %s", s.Grade(d.NutriscoreGrade), derive.GradeLabel(d.NutriscoreGrade))
	if d.NutriscoreScore != nil {
		fmt.Fprintf(&b, " %s", s.Muted.Render(fmt.Sprintf("(score %d)", *d.NutriscoreScore)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Quality      %s %s\n",
		s.Tier(v.Tier, fmt.Sprintf("%d/100", d.QualityScore)),
		s.Muted.Render(string(v.Rarity)))
	fmt.Fprintf(&b, "  Completeness %d%%\n", v.Completeness)

	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Score breakdown"))
	b.WriteString("\n")
	dec := v.Decomposition
	b.WriteString(p.partLine("Nutri-Score", dec.NutriscorePoints, derive.MaxNutriscorePoints, false))
	b.WriteString(p.partLine("Completeness", dec.CompletenessPoints, derive.MaxCompletenessPoints, true))
	b.WriteString(p.partLine("Nutrition", dec.NutritionPoints, derive.MaxNutritionPoints, true))

	if len(v.Intake) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Subtitle.Render("Per 100 g, share of daily intake"))
		b.WriteString("\n")
		for _, in := range v.Intake {
			fmt.Fprintf(&b, "  %-14s %8s %s %s\n",
				truncate(in.Label, 14),
				fmt.Sprintf("%g %s", in.Value, in.Unit),
				s.Bar(float64(in.Percent), barWidth, intakeColor(in.Level)),
				s.Tier(invertTier(in.Level), fmt.Sprintf("%3d%%", in.Percent)))
		}
	}

	if len(d.Categories) > 0 {
		fmt.Fprintf(&b, "\n  %s %s", s.Muted.Render("Categories"), strings.Join(d.Categories, ", "))
	}
	if len(d.Allergens) > 0 {
		fmt.Fprintf(&b, "\n  %s %s", s.Muted.Render("Allergens "), s.Warning.Render(strings.Join(d.Allergens, ", ")))
	}
	if d.Countries != "" {
		fmt.Fprintf(&b, "\n  %s %s", s.Muted.Render("Countries "), d.Countries)
	}
	if created := time.Time(d.CreatedAt); !created.IsZero() {
		fmt.Fprintf(&b, "\n  %s %s", s.Muted.Render("Added     "), created.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p *Printer) partLine(label string, pts, ceiling int, estimated bool) string {
	suffix := ""
	if estimated {
		suffix = " " + p.styles.Muted.Render("est.")
	}
	pct := 0.0
	if ceiling > 0 {
		pct = float64(pts) / float64(ceiling) * 100
	}
	return fmt.Sprintf("  %-14s %s %2d/%d%s\n",
		label, p.styles.Bar(pct, barWidth, string(p.styles.Palette.Accent)), pts, ceiling, suffix)
}

// invertTier maps an intake level to a score tier: a high share of the
// daily reference reads as a warning.
func invertTier(t derive.Tier) derive.Tier {
	switch t {
	case derive.TierHigh:
		return derive.TierLow
	case derive.TierLow:
		return derive.TierHigh
	default:
		return t
	}
}

func intakeColor(t derive.Tier) string {
	switch t {
	case derive.TierHigh:
		return derive.GradeColor(gateway.GradeE)
	case derive.TierMid:
		return derive.GradeColor(gateway.GradeC)
	default:
		return derive.GradeColor(gateway.GradeA)
	}
}

func machineProduct(d gateway.ProductDetail, v derive.ProductView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "id\t%d\n", d.ID)
	fmt.Fprintf(&b, "name\t%s\n", d.ProductName)
	fmt.Fprintf(&b, "brand\t%s\n", d.BrandName)
	fmt.Fprintf(&b, "barcode\t%s\n", d.Barcode)
	fmt.Fprintf(&b, "nutriscore_grade\t%s\n", d.NutriscoreGrade)
	fmt.Fprintf(&b, "quality_score\t%d\n", d.QualityScore)
	fmt.Fprintf(&b, "rarity\t%s\n", v.Rarity)
	fmt.Fprintf(&b, "completeness\t%d\n", v.Completeness)
	dec := v.Decomposition
	fmt.Fprintf(&b, "points\t%d\t%d\t%d\n", dec.NutriscorePoints, dec.CompletenessPoints, dec.NutritionPoints)
	for _, in := range v.Intake {
		fmt.Fprintf(&b, "nutrient\t%s\t%g\t%s\t%d\n", in.Name, in.Value, in.Unit, in.Percent)
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// Health
// =============================================================================

// RenderHealth renders the connectivity indicator.
func (p *Printer) RenderHealth(h overview.Health) string {
	if p.mode == ModeMachine {
		return h.String()
	}
	switch h {
	case overview.HealthUp:
		return p.styles.Success.Render("● " + h.String())
	case overview.HealthDown:
		return p.styles.Error.Render("● " + h.String())
	default:
		return p.styles.Muted.Render("○ " + h.String())
	}
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
