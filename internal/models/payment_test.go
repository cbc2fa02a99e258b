package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentAmount(t *testing.T) {
	pending := decimal.RequireFromString("200.00")

	assert.NoError(t, ValidatePaymentAmount(decimal.RequireFromString("100.00"), pending))
	assert.NoError(t, ValidatePaymentAmount(decimal.RequireFromString("200.00"), pending), "exact pending is allowed")

	assert.ErrorIs(t, ValidatePaymentAmount(decimal.RequireFromString("200.01"), pending), ErrAmountExceedsBalance)
	assert.ErrorIs(t, ValidatePaymentAmount(decimal.Zero, pending), ErrInvalidAmount)
	assert.ErrorIs(t, ValidatePaymentAmount(decimal.RequireFromString("-10.00"), pending), ErrInvalidAmount)

	// Fully paid: any further amount is rejected
	assert.ErrorIs(t, ValidatePaymentAmount(decimal.RequireFromString("0.01"), decimal.Zero), ErrAmountExceedsBalance)
}

func TestInvoiceNumber(t *testing.T) {
	p := &Payment{InvoiceSeq: 42}
	assert.Equal(t, "FAC-000042", p.InvoiceNumber())

	p = &Payment{InvoiceSeq: 1234567}
	assert.Equal(t, "FAC-1234567", p.InvoiceNumber())

	p = &Payment{}
	assert.Equal(t, "FAC-PENDING", p.InvoiceNumber())
}

func TestPendingBalance(t *testing.T) {
	total := decimal.RequireFromString("150.00")

	assert.True(t, PendingBalance(total, decimal.RequireFromString("50.00")).Equal(decimal.RequireFromString("100.00")))
	assert.True(t, PendingBalance(total, total).IsZero())
	assert.True(t, PendingBalance(total, decimal.RequireFromString("200.00")).IsZero(), "overpay floors at zero")
}
