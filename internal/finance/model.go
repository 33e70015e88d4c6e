package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahazfernando/aussie-ops-financials/internal/gst"
)

// TransactionType is the direction of a financial event.
type TransactionType string

const (
	Inflow  TransactionType = "INFLOW"
	Outflow TransactionType = "OUTFLOW"
)

func (t TransactionType) Valid() bool {
	return t == Inflow || t == Outflow
}

// Category buckets a transaction. Inflows and outflows have distinct sets;
// OTHER carries a free-text custom label alongside.
type Category string

const (
	CategoryClientPayment Category = "CLIENT_PAYMENT"
	CategoryInvestment    Category = "INVESTMENT"
	CategoryGST           Category = "GST"
	CategoryTax           Category = "TAX"
	CategoryMarketing     Category = "MARKETING"
	CategoryFranchiseFee  Category = "FRANCHISE_FEE"
	CategoryOther         Category = "OTHER"
)

// ValidFor reports whether c belongs to the category set for typ.
func (c Category) ValidFor(typ TransactionType) bool {
	switch typ {
	case Inflow:
		return c == CategoryClientPayment || c == CategoryInvestment || c == CategoryOther
	case Outflow:
		return c == CategoryGST || c == CategoryTax || c == CategoryMarketing ||
			c == CategoryFranchiseFee || c == CategoryOther
	}
	return false
}

// Transaction is a single financial event. gstAmount and amountGross are
// computed once at create/update time and stored; reads never recompute them.
type Transaction struct {
	ID             string            `json:"id"`
	Type           TransactionType   `json:"type"`
	Category       Category          `json:"category"`
	CustomCategory *string           `json:"customCategory,omitempty"`
	AmountNet      decimal.Decimal   `json:"amountNet"`
	GSTAmount      decimal.Decimal   `json:"gstAmount"`
	AmountGross    decimal.Decimal   `json:"amountGross"`
	PaymentMethod  gst.PaymentMethod `json:"paymentMethod"`
	GSTApplied     bool              `json:"gstApplied"`
	Description    *string           `json:"description,omitempty"`
	ClientID       *string           `json:"clientId,omitempty"`
	ClientName     *string           `json:"clientName,omitempty"`
	Date           time.Time         `json:"date"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	CreatedBy      string            `json:"createdBy"`
	CreatedByName  *string           `json:"createdByName,omitempty"`
	UpdatedBy      *string           `json:"updatedBy,omitempty"`
	UpdatedByName  *string           `json:"updatedByName,omitempty"`
}

// EffectiveCategory is the display name used for grouping: the custom label
// when category is OTHER and one is present, else the category itself.
func (t Transaction) EffectiveCategory() string {
	if t.Category == CategoryOther && t.CustomCategory != nil && *t.CustomCategory != "" {
		return *t.CustomCategory
	}
	return string(t.Category)
}

// FinancialSummary is derived from a transaction set, never persisted.
type FinancialSummary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpenses     decimal.Decimal `json:"totalExpenses"`
	TotalProfit       decimal.Decimal `json:"totalProfit"`
	TotalGstCollected decimal.Decimal `json:"totalGstCollected"`
	TotalGstPayable   decimal.Decimal `json:"totalGstPayable"`
}

// Filters narrows a transaction listing. Structured filters run in SQL; the
// free-text search is applied over the fetched rows.
type Filters struct {
	StartDate     *time.Time
	EndDate       *time.Time
	Type          TransactionType
	Category      Category
	PaymentMethod gst.PaymentMethod
	Search        string
}
