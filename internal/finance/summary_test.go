package finance

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(typ TransactionType, gross, gstAmount string, gstApplied bool) Transaction {
	return Transaction{
		Type:        typ,
		AmountGross: dec(gross),
		GSTAmount:   dec(gstAmount),
		GSTApplied:  gstApplied,
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpenses.IsZero())
	assert.True(t, s.TotalProfit.IsZero())
	assert.True(t, s.TotalGstCollected.IsZero())
	assert.True(t, s.TotalGstPayable.IsZero())
}

func TestSummarizeWorkedExample(t *testing.T) {
	s := Summarize([]Transaction{
		tx(Inflow, "110", "10", true),
		tx(Outflow, "55", "5", true),
	})

	assert.True(t, s.TotalIncome.Equal(dec("110")), "income %s", s.TotalIncome)
	assert.True(t, s.TotalExpenses.Equal(dec("55")), "expenses %s", s.TotalExpenses)
	assert.True(t, s.TotalProfit.Equal(dec("55")), "profit %s", s.TotalProfit)
	assert.True(t, s.TotalGstCollected.Equal(dec("10")), "collected %s", s.TotalGstCollected)
	assert.True(t, s.TotalGstPayable.Equal(dec("5")), "payable %s", s.TotalGstPayable)
}

func TestSummarizeSkipsGstWhenNotApplied(t *testing.T) {
	s := Summarize([]Transaction{
		tx(Inflow, "100", "0", false),
		tx(Outflow, "40", "0", false),
	})

	assert.True(t, s.TotalIncome.Equal(dec("100")))
	assert.True(t, s.TotalExpenses.Equal(dec("40")))
	assert.True(t, s.TotalGstCollected.IsZero())
	assert.True(t, s.TotalGstPayable.IsZero())
}

func TestSummarizeOrderInvariant(t *testing.T) {
	transactions := []Transaction{
		tx(Inflow, "110", "10", true),
		tx(Inflow, "220", "20", true),
		tx(Outflow, "55", "5", true),
		tx(Outflow, "33", "3", true),
		tx(Inflow, "75.50", "0", false),
	}

	want := Summarize(transactions)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Transaction, len(transactions))
		copy(shuffled, transactions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Summarize(shuffled)
		assert.True(t, got.TotalIncome.Equal(want.TotalIncome))
		assert.True(t, got.TotalExpenses.Equal(want.TotalExpenses))
		assert.True(t, got.TotalProfit.Equal(want.TotalProfit))
		assert.True(t, got.TotalGstCollected.Equal(want.TotalGstCollected))
		assert.True(t, got.TotalGstPayable.Equal(want.TotalGstPayable))
	}
}

func TestEffectiveCategory(t *testing.T) {
	custom := "Coaching"
	assert.Equal(t, "Coaching", Transaction{Category: CategoryOther, CustomCategory: &custom}.EffectiveCategory())
	assert.Equal(t, "OTHER", Transaction{Category: CategoryOther}.EffectiveCategory())
	assert.Equal(t, "CLIENT_PAYMENT", Transaction{Category: CategoryClientPayment, CustomCategory: &custom}.EffectiveCategory())
}

func TestFilterSearch(t *testing.T) {
	desc := "Monthly retainer"
	name := "Acme Pty Ltd"
	transactions := []Transaction{
		{Category: CategoryClientPayment, Description: &desc},
		{Category: CategoryMarketing, ClientName: &name},
		{Category: CategoryTax},
	}

	assert.Len(t, filterSearch(transactions, "retainer"), 1)
	assert.Len(t, filterSearch(transactions, "ACME"), 1)
	assert.Len(t, filterSearch(transactions, "tax"), 1)
	assert.Len(t, filterSearch(transactions, "nothing"), 0)
	assert.Len(t, filterSearch(transactions, "  "), 3)
}
