package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ConsumptionRepository handles service consumptions and their
// per-consumption payment ledgers. It mirrors PaymentRepository at
// smaller scale: same append-only ledger, same balance check under a
// row lock, plus the automatic INVOICED transition when a payment
// settles the balance.
type ConsumptionRepository struct {
	db *sqlx.DB
}

// NewConsumptionRepository creates a new ConsumptionRepository
func NewConsumptionRepository(db *sqlx.DB) *ConsumptionRepository {
	return &ConsumptionRepository{db: db}
}

const consumptionColumns = `c.id, c.reservation_id, c.service_id, s.name AS service_name,
	       c.quantity, c.unit_price, c.total, c.status, c.notes, c.added_by,
	       c.created_at, c.updated_at`

// Create inserts a service order. The caller has already snapshotted
// the unit price; the total is recomputed here from quantity and unit
// price before the insert.
func (r *ConsumptionRepository) Create(c *models.ServiceConsumption) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.ComputeTotal()

	query := `
		INSERT INTO service_consumptions (
			id, reservation_id, service_id, quantity, unit_price, total, status, notes, added_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowx(query,
		c.ID, c.ReservationID, c.ServiceID, c.Quantity, c.UnitPrice, c.Total,
		c.Status, c.Notes, c.AddedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a consumption with its service name
func (r *ConsumptionRepository) GetByID(id uuid.UUID) (*models.ServiceConsumption, error) {
	c := &models.ServiceConsumption{}
	query := `
		SELECT ` + consumptionColumns + `
		FROM service_consumptions c
		JOIN services s ON s.id = c.service_id
		WHERE c.id = $1
	`
	if err := r.db.Get(c, query, id); err != nil {
		return nil, err
	}
	return c, nil
}

// ListByReservation retrieves all consumptions of a reservation, newest
// first.
func (r *ConsumptionRepository) ListByReservation(reservationID uuid.UUID) ([]models.ServiceConsumption, error) {
	consumptions := []models.ServiceConsumption{}
	query := `
		SELECT ` + consumptionColumns + `
		FROM service_consumptions c
		JOIN services s ON s.id = c.service_id
		WHERE c.reservation_id = $1
		ORDER BY c.created_at DESC
	`
	if err := r.db.Select(&consumptions, query, reservationID); err != nil {
		return nil, err
	}
	return consumptions, nil
}

// UpdateQuantity changes the ordered quantity and recomputes the total
// from the snapshotted unit price.
func (r *ConsumptionRepository) UpdateQuantity(id uuid.UUID, quantity int) (*models.ServiceConsumption, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}
	_, err := r.db.Exec(`
		UPDATE service_consumptions
		SET quantity = $2, total = unit_price * $2, updated_at = NOW()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	return r.GetByID(id)
}

// UpdateStatus sets the consumption status
func (r *ConsumptionRepository) UpdateStatus(id uuid.UUID, status models.ConsumptionStatus) error {
	result, err := r.db.Exec(`
		UPDATE service_consumptions SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("consumption not found")
	}
	return nil
}

// RecordPayment appends a payment against the consumption's own ledger
// under the same contract as reservation payments. When the payment
// settles the balance exactly, the consumption transitions to INVOICED
// in the same transaction.
func (r *ConsumptionRepository) RecordPayment(p *models.ServicePayment) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var total decimal.Decimal
	err = tx.Get(&total, `
		SELECT total FROM service_consumptions WHERE id = $1 FOR UPDATE`, p.ConsumptionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("consumption not found: %w", err)
		}
		return fmt.Errorf("failed to lock consumption: %w", err)
	}

	var paid decimal.Decimal
	err = tx.Get(&paid, `
		SELECT COALESCE(SUM(amount), 0) FROM service_payments WHERE consumption_id = $1`, p.ConsumptionID)
	if err != nil {
		return fmt.Errorf("failed to sum service payments: %w", err)
	}

	pending := models.PendingBalance(total, paid)
	if err := models.ValidatePaymentAmount(p.Amount, pending); err != nil {
		return err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err = tx.QueryRowx(`
		INSERT INTO service_payments (id, consumption_id, amount, method, reference, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		p.ID, p.ConsumptionID, p.Amount, p.Method, p.Reference, p.Notes, p.CreatedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record service payment: %w", err)
	}

	if models.PendingBalance(total, paid.Add(p.Amount)).IsZero() {
		_, err = tx.Exec(`
			UPDATE service_consumptions SET status = 'INVOICED', updated_at = NOW() WHERE id = $1`,
			p.ConsumptionID)
		if err != nil {
			return fmt.Errorf("failed to mark consumption invoiced: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit service payment: %w", err)
	}
	return nil
}

// ListPayments retrieves the payment ledger of a consumption
func (r *ConsumptionRepository) ListPayments(consumptionID uuid.UUID) ([]models.ServicePayment, error) {
	payments := []models.ServicePayment{}
	err := r.db.Select(&payments, `
		SELECT id, consumption_id, amount, method, reference, notes, created_by, created_at
		FROM service_payments
		WHERE consumption_id = $1
		ORDER BY created_at DESC`, consumptionID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// SumPayments returns the cumulative amount paid against a consumption
func (r *ConsumptionRepository) SumPayments(consumptionID uuid.UUID) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := r.db.Get(&paid, `
		SELECT COALESCE(SUM(amount), 0) FROM service_payments WHERE consumption_id = $1`, consumptionID)
	if err != nil {
		return decimal.Zero, err
	}
	return paid, nil
}
