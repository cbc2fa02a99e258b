package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PaymentRepository is the append-only payment ledger for reservations.
// Recording a payment locks the reservation row, recomputes the pending
// balance from the full payment set and rejects any amount that would
// overpay, so two concurrent payments cannot jointly exceed the
// balance.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Record appends an immutable payment after the balance check passes.
// The total amount is derived inside the transaction from the
// reservation dates and the room type's nightly rate; nothing is
// trusted from a cache.
func (r *PaymentRepository) Record(p *models.Payment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var billing struct {
		CheckIn  time.Time       `db:"check_in"`
		CheckOut time.Time       `db:"check_out"`
		Rate     decimal.Decimal `db:"nightly_rate"`
	}
	err = tx.Get(&billing, `
		SELECT r.check_in, r.check_out, rt.base_rate AS nightly_rate
		FROM reservations r
		JOIN rooms rm ON rm.id = r.room_id
		JOIN room_types rt ON rt.id = rm.room_type_id
		WHERE r.id = $1
		FOR UPDATE OF r`, p.ReservationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("reservation not found: %w", err)
		}
		return fmt.Errorf("failed to lock reservation: %w", err)
	}

	var paid decimal.Decimal
	err = tx.Get(&paid, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE reservation_id = $1`, p.ReservationID)
	if err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	nights := models.Nights(billing.CheckIn, billing.CheckOut)
	total := billing.Rate.Mul(decimal.NewFromInt(int64(nights)))
	pending := models.PendingBalance(total, paid)

	if err := models.ValidatePaymentAmount(p.Amount, pending); err != nil {
		return err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err = tx.QueryRowx(`
		INSERT INTO payments (id, reservation_id, amount, method, reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING invoice_seq, created_at`,
		p.ID, p.ReservationID, p.Amount, p.Method, p.Reference, p.Notes, p.CreatedBy,
	).Scan(&p.InvoiceSeq, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

// ListByReservation retrieves all payments of a reservation, newest
// first, for balance display and invoice generation.
func (r *PaymentRepository) ListByReservation(reservationID uuid.UUID) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.Select(&payments, `
		SELECT id, reservation_id, amount, method, reference, notes, invoice_seq, created_by, created_at
		FROM payments
		WHERE reservation_id = $1
		ORDER BY created_at DESC`, reservationID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// SumByReservation returns the cumulative amount paid against a
// reservation, recomputed from the ledger on every call.
func (r *PaymentRepository) SumByReservation(reservationID uuid.UUID) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := r.db.Get(&paid, `
		SELECT COALESCE(SUM(amount), 0) FROM payments WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return decimal.Zero, err
	}
	return paid, nil
}
