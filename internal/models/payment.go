package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod tags how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// Payment is an immutable ledger entry against a reservation. Payments
// are only ever appended; balances are always recomputed from the full
// set.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ReservationID uuid.UUID       `json:"reservation_id" db:"reservation_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        PaymentMethod   `json:"method" db:"method"`
	Reference     string          `json:"reference" db:"reference"`
	Notes         string          `json:"notes" db:"notes"`
	InvoiceSeq    int64           `json:"invoice_seq" db:"invoice_seq"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// InvoiceNumber formats the simple sequential invoice number of the
// payment, e.g. FAC-000042.
func (p *Payment) InvoiceNumber() string {
	if p.InvoiceSeq == 0 {
		return "FAC-PENDING"
	}
	return fmt.Sprintf("FAC-%06d", p.InvoiceSeq)
}

// ValidatePaymentAmount enforces the shared payment contract: the
// amount must be positive and must not exceed the pending balance. It
// is used for both reservation payments and service payments.
func ValidatePaymentAmount(amount, pending decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(pending) {
		return fmt.Errorf("%w: pending balance is %s", ErrAmountExceedsBalance, pending.StringFixed(2))
	}
	return nil
}
