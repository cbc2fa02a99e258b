package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// StayRepository owns the stay lifecycle. Check-in and check-out are
// single transactions covering the stay record, the reservation status
// and the room status, so a rejected transition leaves no partial
// writes behind. Locks are taken reservation first, then room, same as
// ApplyTransition.
type StayRepository struct {
	db *sqlx.DB
}

// NewStayRepository creates a new StayRepository
func NewStayRepository(db *sqlx.DB) *StayRepository {
	return &StayRepository{db: db}
}

const stayColumns = `id, reservation_id, room_id, primary_guest, planned_check_in, planned_check_out,
	       actual_check_in, actual_check_out, status, recorded_by, created_at, updated_at`

// CheckIn records the guest's arrival at the given instant. The
// reservation must be PENDING or CONFIRMED; the stay record is created
// on first arrival if registration never materialized one. The stay
// write, the CHECKED_IN transition and the room synchronization commit
// together or not at all.
func (r *StayRepository) CheckIn(reservationID uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := lockReservation(tx, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if res.Status != models.ReservationStatusPending && res.Status != models.ReservationStatusConfirmed {
		return nil, nil, fmt.Errorf("%w: reservation %s is %s", models.ErrNotEligible, res.Code, res.Status)
	}
	next, err := res.Status.ApplyAction(models.ActionCheckIn)
	if err != nil {
		return nil, nil, err
	}

	stay, err := lockStay(tx, reservationID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		stay = &models.Stay{
			ID:              uuid.New(),
			ReservationID:   res.ID,
			RoomID:          res.RoomID,
			PrimaryGuest:    res.GuestName,
			PlannedCheckIn:  res.CheckIn,
			PlannedCheckOut: res.CheckOut,
			ActualCheckIn:   &now,
			Status:          models.StayStatusInProgress,
			RecordedBy:      recordedBy,
		}
		if err := insertStayTx(tx, stay); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		stay.ActualCheckIn = &now
		stay.Status = models.StayStatusInProgress
		stay.RecordedBy = recordedBy
		if err := updateStayTx(tx, stay); err != nil {
			return nil, nil, err
		}
	}

	if err := finishTransitionTx(tx, res, next); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit check-in: %w", err)
	}
	return stay, res, nil
}

// CheckOut records the guest's departure. The stay must be in
// progress; the CHECKED_OUT transition frees the room when nothing
// else blocks it. All three writes commit in one transaction.
func (r *StayRepository) CheckOut(reservationID uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := lockReservation(tx, reservationID)
	if err != nil {
		return nil, nil, err
	}

	stay, err := lockStay(tx, reservationID)
	if err != nil {
		return nil, nil, err
	}
	if stay.Status != models.StayStatusInProgress {
		return nil, nil, fmt.Errorf("%w: stay is %s, not IN_PROGRESS", models.ErrNotEligible, stay.Status)
	}

	next, err := res.Status.ApplyAction(models.ActionCheckOut)
	if err != nil {
		return nil, nil, err
	}

	stay.ActualCheckOut = &now
	stay.Status = models.StayStatusFinished
	stay.RecordedBy = recordedBy
	if err := updateStayTx(tx, stay); err != nil {
		return nil, nil, err
	}

	if err := finishTransitionTx(tx, res, next); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit check-out: %w", err)
	}
	return stay, res, nil
}

// GetByReservationID retrieves the stay of a reservation, if any
func (r *StayRepository) GetByReservationID(reservationID uuid.UUID) (*models.Stay, error) {
	stay := &models.Stay{}
	err := r.db.Get(stay, `SELECT `+stayColumns+` FROM stays WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return nil, err
	}
	return stay, nil
}

// ListInProgress retrieves all stays currently in progress, ordered by
// real check-in time.
func (r *StayRepository) ListInProgress() ([]models.Stay, error) {
	stays := []models.Stay{}
	err := r.db.Select(&stays, `
		SELECT `+stayColumns+`
		FROM stays
		WHERE status = 'IN_PROGRESS'
		ORDER BY actual_check_in`)
	if err != nil {
		return nil, err
	}
	return stays, nil
}

// ListArrivalsDue retrieves the reservations due for check-in on the
// given date: pending or confirmed, with a range covering the date.
func (r *StayRepository) ListArrivalsDue(date time.Time) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := r.db.Select(&reservations, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE status IN ('PENDING', 'CONFIRMED')
		  AND check_in <= $1 AND check_out >= $1
		ORDER BY check_in`, date)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// lockStay takes the per-stay write lock. One stay per reservation is
// enforced by a unique constraint on reservation_id.
func lockStay(tx *sqlx.Tx, reservationID uuid.UUID) (*models.Stay, error) {
	stay := &models.Stay{}
	err := tx.Get(stay, `SELECT `+stayColumns+` FROM stays WHERE reservation_id = $1 FOR UPDATE`, reservationID)
	if err != nil {
		return nil, err
	}
	return stay, nil
}

func insertStayTx(tx *sqlx.Tx, stay *models.Stay) error {
	query := `
		INSERT INTO stays (
			id, reservation_id, room_id, primary_guest,
			planned_check_in, planned_check_out, actual_check_in, actual_check_out,
			status, recorded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err := tx.QueryRowx(query,
		stay.ID, stay.ReservationID, stay.RoomID, stay.PrimaryGuest,
		stay.PlannedCheckIn, stay.PlannedCheckOut, stay.ActualCheckIn, stay.ActualCheckOut,
		stay.Status, stay.RecordedBy,
	).Scan(&stay.CreatedAt, &stay.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create stay: %w", err)
	}
	return nil
}

func updateStayTx(tx *sqlx.Tx, stay *models.Stay) error {
	query := `
		UPDATE stays
		SET actual_check_in = $2, actual_check_out = $3, status = $4, recorded_by = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := tx.QueryRowx(query,
		stay.ID, stay.ActualCheckIn, stay.ActualCheckOut, stay.Status, stay.RecordedBy,
	).Scan(&stay.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update stay: %w", err)
	}
	return nil
}
