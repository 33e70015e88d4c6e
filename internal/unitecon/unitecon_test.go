package unitecon

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahazfernando/aussie-ops-financials/internal/costs"
	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func inflow(net string, category finance.Category) finance.Transaction {
	return finance.Transaction{
		Type:      finance.Inflow,
		Category:  category,
		AmountNet: dec(net),
	}
}

func outflow(net string, category finance.Category) finance.Transaction {
	return finance.Transaction{
		Type:      finance.Outflow,
		Category:  category,
		AmountNet: dec(net),
	}
}

func fixedCost(amount string) costs.Cost {
	return costs.Cost{Type: costs.Fixed, Amount: dec(amount)}
}

func variableCost(amount string, volume *string) costs.Cost {
	c := costs.Cost{Type: costs.Variable, Amount: dec(amount)}
	if volume != nil {
		v := dec(*volume)
		c.ActualVolume = &v
	}
	return c
}

func strPtr(s string) *string { return &s }

func TestDeriveEmptyInputs(t *testing.T) {
	got := Derive(nil, nil, 0)

	assert.EqualValues(t, 0, got.Summary.BreakEvenPointUnits)
	assert.True(t, got.Summary.BreakEvenPointRevenue.IsZero())
	assert.True(t, got.Summary.ContributionMarginRatio.IsZero())
	// Customer count floors at 1, so these divide cleanly to zero instead of
	// blowing up.
	assert.True(t, got.Summary.Cac.IsZero())
	assert.True(t, got.Summary.CustomerLtv.IsZero())
	assert.True(t, got.Summary.ContributionMarginGrowth.IsZero())
	assert.True(t, got.Summary.LtvGrowth.IsZero())
	assert.True(t, got.Summary.CacGrowth.IsZero())

	// The CVP series still spans 0..10 with unit step.
	require.Len(t, got.CVPAnalysis, 11)
	assert.EqualValues(t, 0, got.CVPAnalysis[0].Units)
	assert.EqualValues(t, 10, got.CVPAnalysis[10].Units)

	require.Len(t, got.ContributionMarginBreakdown, 2)
	assert.True(t, got.ContributionMarginBreakdown[0].Value.IsZero())
	assert.True(t, got.ContributionMarginBreakdown[1].Value.IsZero())
	assert.Empty(t, got.ProductProfitability)
}

func TestDeriveWorkedExample(t *testing.T) {
	// 10 inflows of 100 => totalRevenue 1000, avg 100/unit.
	transactions := make([]finance.Transaction, 0, 10)
	for i := 0; i < 10; i++ {
		transactions = append(transactions, inflow("100", finance.CategoryClientPayment))
	}

	costRecords := []costs.Cost{
		fixedCost("400"),
		variableCost("20", strPtr("10")), // 200 total variable
	}

	got := Derive(transactions, costRecords, 4)

	// avgRevenue 100, avgVariable 20, unitContribution 80,
	// BEP units = ceil(400/80) = 5, BEP revenue = 500.
	assert.EqualValues(t, 5, got.Summary.BreakEvenPointUnits)
	assert.True(t, got.Summary.BreakEvenPointRevenue.Equal(dec("500")),
		"bep revenue %s", got.Summary.BreakEvenPointRevenue)

	// contributionMargin = 1000-200 = 800 => ratio 80%.
	assert.True(t, got.Summary.ContributionMarginRatio.Equal(dec("80")),
		"ratio %s", got.Summary.ContributionMarginRatio)

	// LTV = 1000/4.
	assert.True(t, got.Summary.CustomerLtv.Equal(dec("250")))
	assert.True(t, got.Summary.Cac.IsZero(), "no marketing spend")

	require.Len(t, got.ContributionMarginBreakdown, 2)
	assert.Equal(t, "Variable Costs", got.ContributionMarginBreakdown[0].Name)
	assert.True(t, got.ContributionMarginBreakdown[0].Value.Equal(dec("200")))
	assert.Equal(t, "Contribution Margin", got.ContributionMarginBreakdown[1].Name)
	assert.True(t, got.ContributionMarginBreakdown[1].Value.Equal(dec("800")))
}

func TestDeriveCVPSeriesShape(t *testing.T) {
	transactions := make([]finance.Transaction, 0, 10)
	for i := 0; i < 10; i++ {
		transactions = append(transactions, inflow("100", finance.CategoryClientPayment))
	}
	costRecords := []costs.Cost{
		fixedCost("400"),
		variableCost("20", strPtr("10")),
	}

	got := Derive(transactions, costRecords, 1)

	// maxUnits = max(5*1.5, 10*1.2, 10) = 12, step = ceil(12/10) = 2:
	// units 0,2,4,6,8,10,12.
	require.Len(t, got.CVPAnalysis, 7)
	for i, p := range got.CVPAnalysis {
		assert.EqualValues(t, int64(i*2), p.Units)
		assert.True(t, p.FixedCost.Equal(dec("400")))
		wantTotal := dec("400").Add(dec("20").Mul(decimal.NewFromInt(p.Units)))
		assert.True(t, p.TotalCost.Equal(wantTotal), "units %d total %s", p.Units, p.TotalCost)
		wantRevenue := dec("100").Mul(decimal.NewFromInt(p.Units))
		assert.True(t, p.Revenue.Equal(wantRevenue), "units %d revenue %s", p.Units, p.Revenue)
	}
}

func TestDeriveNegativeUnitContributionGuards(t *testing.T) {
	// Variable costs exceed revenue: unit contribution is negative, so the
	// break-even point reports zero instead of a nonsense figure.
	transactions := []finance.Transaction{inflow("100", finance.CategoryClientPayment)}
	costRecords := []costs.Cost{
		fixedCost("500"),
		variableCost("300", strPtr("1")),
	}

	got := Derive(transactions, costRecords, 1)

	assert.EqualValues(t, 0, got.Summary.BreakEvenPointUnits)
	assert.True(t, got.Summary.BreakEvenPointRevenue.IsZero())
	assert.True(t, got.Summary.ContributionMarginRatio.Equal(dec("-200")),
		"ratio %s", got.Summary.ContributionMarginRatio)
}

func TestDeriveMissingVolumeCountsAsZero(t *testing.T) {
	transactions := []finance.Transaction{inflow("100", finance.CategoryClientPayment)}
	costRecords := []costs.Cost{variableCost("50", nil)}

	got := Derive(transactions, costRecords, 1)

	// No volume => no variable spend => full margin.
	assert.True(t, got.ContributionMarginBreakdown[0].Value.IsZero())
	assert.True(t, got.ContributionMarginBreakdown[1].Value.Equal(dec("100")))
}

func TestDeriveMarketingSpendAndCac(t *testing.T) {
	transactions := []finance.Transaction{
		inflow("1000", finance.CategoryClientPayment),
		outflow("300", finance.CategoryMarketing),
	}

	got := Derive(transactions, nil, 3)

	assert.True(t, got.Summary.Cac.Equal(dec("100")), "cac %s", got.Summary.Cac)
	// LTV uses the same customer floor: 1000/3.
	want := dec("1000").Div(decimal.NewFromInt(3))
	assert.True(t, got.Summary.CustomerLtv.Equal(want))
}

func TestProductProfitabilityGrouping(t *testing.T) {
	transactions := []finance.Transaction{
		inflow("500", finance.CategoryClientPayment),
		inflow("200", finance.CategoryClientPayment),
		inflow("300", finance.CategoryInvestment),
		{
			Type:           finance.Inflow,
			Category:       finance.CategoryOther,
			CustomCategory: strPtr("Workshops"),
			AmountNet:      dec("150"),
		},
		outflow("900", finance.CategoryMarketing), // outflows never group
	}

	got := Derive(transactions, nil, 1)

	require.Len(t, got.ProductProfitability, 3)
	assert.Equal(t, "CLIENT PAYMENT", got.ProductProfitability[0].Name)
	assert.True(t, got.ProductProfitability[0].Revenue.Equal(dec("700")))
	assert.Equal(t, "INVESTMENT", got.ProductProfitability[1].Name)
	assert.True(t, got.ProductProfitability[1].Revenue.Equal(dec("300")))
	assert.Equal(t, "Workshops", got.ProductProfitability[2].Name)
	assert.True(t, got.ProductProfitability[2].Revenue.Equal(dec("150")))

	// No costs => 100% margin ratio => margin equals revenue.
	assert.True(t, got.ProductProfitability[0].Margin.Equal(dec("700")))
}

func TestProductProfitabilityTopFive(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	transactions := make([]finance.Transaction, 0, len(names))
	for i, name := range names {
		transactions = append(transactions, finance.Transaction{
			Type:           finance.Inflow,
			Category:       finance.CategoryOther,
			CustomCategory: strPtr(name),
			AmountNet:      decimal.NewFromInt(int64((i + 1) * 100)),
		})
	}

	got := Derive(transactions, nil, 1)

	require.Len(t, got.ProductProfitability, 5)
	assert.Equal(t, "G", got.ProductProfitability[0].Name)
	assert.Equal(t, "C", got.ProductProfitability[4].Name)
}
