// Package unitecon derives break-even, contribution-margin and LTV/CAC
// figures from transactions, cost records and the client count. Everything
// here is pure and recomputed from scratch on every call; nothing persists.
package unitecon

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ahazfernando/aussie-ops-financials/internal/costs"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
)

// Summary carries the headline metrics. The growth fields are always zero:
// there is no historical baseline to diff against, and that limitation is
// surfaced rather than papered over.
type Summary struct {
	ContributionMarginRatio  decimal.Decimal `json:"contributionMarginRatio"`
	ContributionMarginGrowth decimal.Decimal `json:"contributionMarginGrowth"`
	BreakEvenPointUnits      int64           `json:"breakEvenPointUnits"`
	BreakEvenPointRevenue    decimal.Decimal `json:"breakEvenPointRevenue"`
	CustomerLtv              decimal.Decimal `json:"customerLtv"`
	LtvGrowth                decimal.Decimal `json:"ltvGrowth"`
	Cac                      decimal.Decimal `json:"cac"`
	CacGrowth                decimal.Decimal `json:"cacGrowth"`
}

// CVPPoint is one step of the cost-volume-profit series.
type CVPPoint struct {
	Units     int64           `json:"units"`
	FixedCost decimal.Decimal `json:"fixedCost"`
	TotalCost decimal.Decimal `json:"totalCost"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// BreakdownSlice is a labelled chart slice with a fixed colour from a closed
// mapping; no runtime asset lookup.
type BreakdownSlice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// ProductProfit is revenue and estimated margin for one effective category.
type ProductProfit struct {
	Name    string          `json:"name"`
	Margin  decimal.Decimal `json:"margin"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Data is the full unit-economics bundle.
type Data struct {
	Summary                     Summary          `json:"summary"`
	CVPAnalysis                 []CVPPoint       `json:"cvpAnalysis"`
	ContributionMarginBreakdown []BreakdownSlice `json:"contributionMarginBreakdown"`
	ProductProfitability        []ProductProfit  `json:"productProfitability"`
}

const (
	colorVariableCosts      = "#ef4444"
	colorContributionMargin = "#22c55e"
)

var oneHundred = decimal.NewFromInt(100)

// Derive computes the bundle. Divisions are guarded by floors, never by
// exceptions: units sold and customer count both floor at 1, and a
// non-positive unit contribution yields a break-even of zero rather than a
// nonsensical or infinite figure. "Units sold" is deliberately a proxy — the
// count of inflow transactions — not literal units.
func Derive(transactions []finance.Transaction, costRecords []costs.Cost, clientCount int) Data {
	totalRevenue := decimal.Zero
	inflows := 0
	for _, t := range transactions {
		if t.Type == finance.Inflow {
			totalRevenue = totalRevenue.Add(t.AmountNet)
			inflows++
		}
	}

	totalUnitsSold := int64(inflows)
	if totalUnitsSold < 1 {
		totalUnitsSold = 1
	}
	unitsDec := decimal.NewFromInt(totalUnitsSold)
	avgRevenuePerUnit := totalRevenue.Div(unitsDec)

	totalFixedCosts := decimal.Zero
	totalVariableCosts := decimal.Zero
	for _, cost := range costRecords {
		switch cost.Type {
		case costs.Fixed:
			totalFixedCosts = totalFixedCosts.Add(cost.Amount)
		case costs.Variable:
			volume := decimal.Zero
			if cost.ActualVolume != nil {
				volume = *cost.ActualVolume
			}
			totalVariableCosts = totalVariableCosts.Add(cost.Amount.Mul(volume))
		}
	}
	avgVariableCostPerUnit := totalVariableCosts.Div(unitsDec)

	contributionMargin := totalRevenue.Sub(totalVariableCosts)
	contributionMarginRatio := decimal.Zero
	if totalRevenue.IsPositive() {
		contributionMarginRatio = contributionMargin.Div(totalRevenue).Mul(oneHundred)
	}

	unitContribution := avgRevenuePerUnit.Sub(avgVariableCostPerUnit)
	var breakEvenPointUnits int64
	if unitContribution.IsPositive() {
		breakEvenPointUnits = totalFixedCosts.Div(unitContribution).Ceil().IntPart()
	}
	breakEvenPointRevenue := decimal.NewFromInt(breakEvenPointUnits).Mul(avgRevenuePerUnit)

	// Marketing spend counts every MARKETING-category transaction; the
	// category only exists on the outflow side in practice.
	marketingSpend := decimal.Zero
	for _, t := range transactions {
		if t.Category == finance.CategoryMarketing {
			marketingSpend = marketingSpend.Add(t.AmountNet)
		}
	}

	totalCustomers := int64(clientCount)
	if totalCustomers < 1 {
		totalCustomers = 1
	}
	customersDec := decimal.NewFromInt(totalCustomers)
	cac := marketingSpend.Div(customersDec)
	customerLtv := totalRevenue.Div(customersDec)

	return Data{
		Summary: Summary{
			ContributionMarginRatio:  contributionMarginRatio,
			ContributionMarginGrowth: decimal.Zero,
			BreakEvenPointUnits:      breakEvenPointUnits,
			BreakEvenPointRevenue:    breakEvenPointRevenue,
			CustomerLtv:              customerLtv,
			LtvGrowth:                decimal.Zero,
			Cac:                      cac,
			CacGrowth:                decimal.Zero,
		},
		CVPAnalysis: cvpSeries(breakEvenPointUnits, totalUnitsSold, totalFixedCosts, avgVariableCostPerUnit, avgRevenuePerUnit),
		ContributionMarginBreakdown: []BreakdownSlice{
			{Name: "Variable Costs", Value: totalVariableCosts, Color: colorVariableCosts},
			{Name: "Contribution Margin", Value: contributionMargin, Color: colorContributionMargin},
		},
		ProductProfitability: productProfitability(transactions, contributionMarginRatio),
	}
}

// cvpSeries plots roughly ten steps from zero out past the break-even point:
// up to max(1.5x break-even units, 1.2x units sold, 10).
func cvpSeries(bepUnits, unitsSold int64, fixedCosts, avgVariableCost, avgRevenue decimal.Decimal) []CVPPoint {
	maxUnits := math.Max(math.Max(float64(bepUnits)*1.5, float64(unitsSold)*1.2), 10)
	step := int64(math.Ceil(maxUnits / 10))

	points := make([]CVPPoint, 0, 12)
	for u := int64(0); float64(u) <= maxUnits; u += step {
		units := decimal.NewFromInt(u)
		points = append(points, CVPPoint{
			Units:     u,
			FixedCost: fixedCosts,
			TotalCost: fixedCosts.Add(avgVariableCost.Mul(units)),
			Revenue:   avgRevenue.Mul(units),
		})
	}
	return points
}

// productProfitability groups inflow revenue by effective category (the
// custom label when category is OTHER), estimates margin via the global
// contribution-margin ratio, and keeps the top five by revenue. Underscores
// in enum names become spaces for display.
func productProfitability(transactions []finance.Transaction, marginRatio decimal.Decimal) []ProductProfit {
	revenueByCategory := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != finance.Inflow {
			continue
		}
		name := t.EffectiveCategory()
		revenueByCategory[name] = revenueByCategory[name].Add(t.AmountNet)
	}

	out := make([]ProductProfit, 0, len(revenueByCategory))
	for name, revenue := range revenueByCategory {
		out = append(out, ProductProfit{
			Name:    strings.ReplaceAll(name, "_", " "),
			Revenue: revenue,
			Margin:  revenue.Mul(marginRatio).Div(oneHundred),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
