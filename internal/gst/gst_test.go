package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func boolPtr(b bool) *bool { return &b }

func TestCalculatePolicyTable(t *testing.T) {
	net := dec("100")

	tests := []struct {
		name         string
		method       PaymentMethod
		userSelected *bool
		wantApplied  bool
		wantAmount   string
	}{
		{"card always applies", CreditDebitCard, nil, true, "10"},
		{"card ignores user selection", CreditDebitCard, boolPtr(false), true, "10"},
		{"business transfer always applies", BankTransferBusiness, nil, true, "10"},
		{"business transfer ignores user selection", BankTransferBusiness, boolPtr(false), true, "10"},
		{"cash never applies", CashInHand, nil, false, "0"},
		{"cash ignores user selection", CashInHand, boolPtr(true), false, "0"},
		{"personal transfer defaults off", BankTransferPersonal, nil, false, "0"},
		{"personal transfer opt-in", BankTransferPersonal, boolPtr(true), true, "10"},
		{"personal transfer explicit off", BankTransferPersonal, boolPtr(false), false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(net, tt.method, tt.userSelected)
			assert.Equal(t, tt.wantApplied, got.Applied)
			assert.True(t, got.Amount.Equal(dec(tt.wantAmount)),
				"gst amount = %s, want %s", got.Amount, tt.wantAmount)
		})
	}
}

func TestCalculateRoundsToCents(t *testing.T) {
	// 33.33 * 0.10 = 3.333, stored as 3.33.
	got := Calculate(dec("33.33"), CreditDebitCard, nil)
	assert.True(t, got.Amount.Equal(dec("3.33")), "got %s", got.Amount)

	// 99.95 * 0.10 = 9.995, rounds half up to 10.00.
	got = Calculate(dec("99.95"), BankTransferBusiness, nil)
	assert.True(t, got.Amount.Equal(dec("10.00")), "got %s", got.Amount)
}

func TestGrossAmount(t *testing.T) {
	assert.True(t, GrossAmount(dec("100"), dec("10")).Equal(dec("110")))
	assert.True(t, GrossAmount(dec("55.50"), dec("0")).Equal(dec("55.50")))
	assert.True(t, GrossAmount(dec("0"), dec("0")).Equal(dec("0")))
}

func TestDeriveOnCreate(t *testing.T) {
	net := dec("200")

	t.Run("explicit flag overrides policy", func(t *testing.T) {
		got := DeriveOnCreate(net, CashInHand, boolPtr(true))
		assert.True(t, got.Applied)
		assert.True(t, got.Amount.Equal(dec("20")))

		got = DeriveOnCreate(net, CreditDebitCard, boolPtr(false))
		assert.False(t, got.Applied)
		assert.True(t, got.Amount.IsZero())
	})

	t.Run("no flag falls back to payment-method policy", func(t *testing.T) {
		got := DeriveOnCreate(net, BankTransferBusiness, nil)
		assert.True(t, got.Applied)
		assert.True(t, got.Amount.Equal(dec("20")))

		got = DeriveOnCreate(net, BankTransferPersonal, nil)
		assert.False(t, got.Applied)
		assert.True(t, got.Amount.IsZero())
	})
}

func TestDeriveOnUpdatePrecedence(t *testing.T) {
	prev := Decision{Amount: dec("10"), Applied: true}

	t.Run("explicit flag wins over method change", func(t *testing.T) {
		got := DeriveOnUpdate(prev, dec("300"), true, CashInHand, boolPtr(true))
		assert.True(t, got.Applied)
		assert.True(t, got.Amount.Equal(dec("30")))
	})

	t.Run("method change reruns policy", func(t *testing.T) {
		got := DeriveOnUpdate(prev, dec("300"), true, CashInHand, nil)
		assert.False(t, got.Applied)
		assert.True(t, got.Amount.IsZero())
	})

	t.Run("amount-only edit carries the previous decision forward", func(t *testing.T) {
		// A BANK_TRANSFER_PERSONAL record with GST previously applied on
		// amountNet 100 (gstAmount 10), updated to amountNet 200 with no
		// paymentMethod and no gstApplied in the patch: the stored gstAmount
		// stays 10, not 20.
		got := DeriveOnUpdate(prev, dec("200"), false, BankTransferPersonal, nil)
		assert.True(t, got.Applied)
		assert.True(t, got.Amount.Equal(dec("10")), "carry-forward must keep the old gstAmount, got %s", got.Amount)
	})
}
