// Package gst holds the GST policy for transactions: which payment methods
// attract GST, how the GST amount is derived from a net amount, and how the
// stored GST fields are recomputed across the create and update paths.
package gst

import "github.com/shopspring/decimal"

// PaymentMethod is how a transaction was settled. The method decides whether
// GST applies by default.
type PaymentMethod string

const (
	CreditDebitCard      PaymentMethod = "CREDIT_DEBIT_CARD"
	CashInHand           PaymentMethod = "CASH_IN_HAND"
	BankTransferBusiness PaymentMethod = "BANK_TRANSFER_BUSINESS"
	BankTransferPersonal PaymentMethod = "BANK_TRANSFER_PERSONAL"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case CreditDebitCard, CashInHand, BankTransferBusiness, BankTransferPersonal:
		return true
	}
	return false
}

// rate is the flat Australian GST rate (10%). Not configurable per call.
var rate = decimal.RequireFromString("0.10")

// Decision is a computed GST outcome: the amount and whether GST applied.
type Decision struct {
	Amount  decimal.Decimal
	Applied bool
}

// round2 is the single rounding point for GST amounts. Every derivation goes
// through it so the create and update paths cannot drift.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// amountFor returns the GST amount for a net amount given applicability.
func amountFor(amountNet decimal.Decimal, applied bool) decimal.Decimal {
	if !applied {
		return decimal.Zero
	}
	return round2(amountNet.Mul(rate))
}

// Calculate applies the payment-method policy:
//
//	CREDIT_DEBIT_CARD       always GST
//	BANK_TRANSFER_BUSINESS  always GST
//	CASH_IN_HAND            never GST
//	BANK_TRANSFER_PERSONAL  GST only when the user explicitly selected it
//
// userSelected is only consulted for BANK_TRANSFER_PERSONAL; nil means the
// user made no selection, which defaults to no GST. Negative amounts are not
// rejected here; validation belongs to the caller.
func Calculate(amountNet decimal.Decimal, method PaymentMethod, userSelected *bool) Decision {
	var applied bool
	switch method {
	case CreditDebitCard, BankTransferBusiness:
		applied = true
	case CashInHand:
		applied = false
	case BankTransferPersonal:
		applied = userSelected != nil && *userSelected
	}
	return Decision{Amount: amountFor(amountNet, applied), Applied: applied}
}

// GrossAmount combines a net amount and its GST into the gross total.
func GrossAmount(amountNet, gstAmount decimal.Decimal) decimal.Decimal {
	return amountNet.Add(gstAmount)
}

// DeriveOnCreate computes the stored GST fields for a new transaction. An
// explicit gstApplied flag from the caller overrides the payment-method
// policy; otherwise the policy alone decides (the raw creation boundary has
// no separate user selection, unlike the interactive form).
func DeriveOnCreate(amountNet decimal.Decimal, method PaymentMethod, explicit *bool) Decision {
	if explicit != nil {
		return Decision{Amount: amountFor(amountNet, *explicit), Applied: *explicit}
	}
	return Calculate(amountNet, method, nil)
}

// DeriveOnUpdate recomputes stored GST fields during an update. Callers must
// only invoke it when the update payload touches amountNet or paymentMethod.
// Precedence, highest first:
//
//  1. an explicit gstApplied in the update is trusted as-is;
//  2. a changed payment method reruns the policy against the effective net
//     amount;
//  3. otherwise the previous decision is carried forward untouched, even when
//     only amountNet changed. The stale GST amount under an amount-only edit
//     of a BANK_TRANSFER_PERSONAL record is deliberate: it preserves a
//     previously made GST choice.
func DeriveOnUpdate(prev Decision, amountNet decimal.Decimal, methodChanged bool, method PaymentMethod, explicit *bool) Decision {
	if explicit != nil {
		return Decision{Amount: amountFor(amountNet, *explicit), Applied: *explicit}
	}
	if methodChanged {
		return Calculate(amountNet, method, nil)
	}
	return prev
}
