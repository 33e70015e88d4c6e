// Package reports renders financial statements as PDF downloads.
package reports

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/ahazfernando/aussie-ops-financials/internal/finance"
)

// CategoryTotal is one statement line: gross income and expense for an
// effective category over the reporting period.
type CategoryTotal struct {
	Category string
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

// Statement is the assembled report input.
type Statement struct {
	Period     string
	Summary    finance.FinancialSummary
	Categories []CategoryTotal
}

// BuildStatement folds transactions into the statement body. Categories are
// listed alphabetically; the summary comes from the same single-pass fold
// used everywhere else.
func BuildStatement(period string, transactions []finance.Transaction) Statement {
	type bucket struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, t := range transactions {
		name := t.EffectiveCategory()
		b, ok := buckets[name]
		if !ok {
			b = &bucket{}
			buckets[name] = b
		}
		if t.Type == finance.Inflow {
			b.income = b.income.Add(t.AmountGross)
		} else {
			b.expense = b.expense.Add(t.AmountGross)
		}
	}

	categories := make([]CategoryTotal, 0, len(buckets))
	for name, b := range buckets {
		categories = append(categories, CategoryTotal{Category: name, Income: b.income, Expense: b.expense})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })

	return Statement{
		Period:     period,
		Summary:    finance.Summarize(transactions),
		Categories: categories,
	}
}

// BuildStatementPDF renders the statement for download.
func BuildStatementPDF(s Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Financial Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Financial Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", s.Period))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []struct {
		label string
		value decimal.Decimal
	}{
		{"Total Income", s.Summary.TotalIncome},
		{"Total Expenses", s.Summary.TotalExpenses},
		{"Profit", s.Summary.TotalProfit},
		{"GST Collected", s.Summary.TotalGstCollected},
		{"GST Payable", s.Summary.TotalGstPayable},
	} {
		pdf.Cell(70, 7, line.label)
		pdf.Cell(50, 7, "$"+line.value.StringFixed(2))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "By Category")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Category")
	pdf.Cell(40, 7, "Income")
	pdf.Cell(40, 7, "Expense")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range s.Categories {
		pdf.Cell(70, 7, row.Category)
		pdf.Cell(40, 7, "$"+row.Income.StringFixed(2))
		pdf.Cell(40, 7, "$"+row.Expense.StringFixed(2))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
