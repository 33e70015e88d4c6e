package finance

import "github.com/shopspring/decimal"

// Summarize folds a transaction set into a financial summary in a single
// pass. Inflows add their gross amount to income and, when GST applied,
// their GST to collected; outflows mirror that into expenses and payable.
// Callers filter the input set beforehand; no date logic lives here. The
// fold is a pure sum, so the result is invariant under reordering, and an
// empty input yields the all-zero summary.
func Summarize(transactions []Transaction) FinancialSummary {
	s := FinancialSummary{
		TotalIncome:       decimal.Zero,
		TotalExpenses:     decimal.Zero,
		TotalProfit:       decimal.Zero,
		TotalGstCollected: decimal.Zero,
		TotalGstPayable:   decimal.Zero,
	}

	for _, t := range transactions {
		if t.Type == Inflow {
			s.TotalIncome = s.TotalIncome.Add(t.AmountGross)
			if t.GSTApplied {
				s.TotalGstCollected = s.TotalGstCollected.Add(t.GSTAmount)
			}
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(t.AmountGross)
			if t.GSTApplied {
				s.TotalGstPayable = s.TotalGstPayable.Add(t.GSTAmount)
			}
		}
	}

	s.TotalProfit = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
