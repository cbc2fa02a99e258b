package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// ReservationRepository owns the reservation lifecycle and the two
// invariants attached to it: no two blocking reservations may overlap
// on the same room, and the room's physical status must follow the
// reservation's status. Both are enforced inside a single transaction
// with a row lock on the room, so two concurrent requests for the same
// room serialize on the lock and cannot both pass the overlap check.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, code, room_id, guest_id, guest_name, guest_email, guest_phone,
	       check_in, check_out, adults, children, status, notes, created_at, updated_at`

// Create validates the overlap invariant and inserts the reservation
// with status PENDING, assigns its immutable code, and synchronizes the
// room status, all in one transaction. On any failure nothing is
// persisted.
func (r *ReservationRepository) Create(res *models.Reservation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the room row first. All writers touching this room queue here.
	roomStatus, err := lockRoom(tx, res.RoomID)
	if err != nil {
		return err
	}

	if err := r.checkOverlapTx(tx, res, nil); err != nil {
		return err
	}

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.Status = models.ReservationStatusPending

	// Per-day sequence for the human-readable code. The room lock does
	// not serialize creations across rooms, so the unique constraint on
	// code is the final arbiter; collisions surface as infrastructure
	// errors and the caller retries.
	now := time.Now()
	var seq int
	err = tx.Get(&seq, `SELECT COUNT(*) + 1 FROM reservations WHERE code LIKE $1`, "R"+now.Format("20060102")+"-%")
	if err != nil {
		return fmt.Errorf("failed to compute reservation sequence: %w", err)
	}
	res.Code = models.BuildReservationCode(now, seq)

	query := `
		INSERT INTO reservations (
			id, code, room_id, guest_id, guest_name, guest_email, guest_phone,
			check_in, check_out, adults, children, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowx(query,
		res.ID, res.Code, res.RoomID, res.GuestID, res.GuestName, res.GuestEmail, res.GuestPhone,
		res.CheckIn, res.CheckOut, res.Adults, res.Children, res.Status, res.Notes,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := syncRoomStatusTx(tx, res, roomStatus); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// Update re-validates the date range and overlap (excluding the
// reservation itself) and persists the editable fields. Only PENDING
// and CONFIRMED reservations can be edited. Locks are taken
// reservation first, then room, the same order every write path uses,
// so a concurrent edit and transition on one reservation cannot
// deadlock.
func (r *ReservationRepository) Update(res *models.Reservation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockReservation(tx, res.ID)
	if err != nil {
		return err
	}
	current := locked.Status
	if current != models.ReservationStatusPending && current != models.ReservationStatusConfirmed {
		return fmt.Errorf("%w: only pending or confirmed reservations can be edited", models.ErrNotEligible)
	}

	roomStatus, err := lockRoom(tx, res.RoomID)
	if err != nil {
		return err
	}

	if err := r.checkOverlapTx(tx, res, &res.ID); err != nil {
		return err
	}

	query := `
		UPDATE reservations
		SET guest_id = $2, guest_name = $3, guest_email = $4, guest_phone = $5,
			check_in = $6, check_out = $7, adults = $8, children = $9,
			notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err = tx.QueryRowx(query,
		res.ID, res.GuestID, res.GuestName, res.GuestEmail, res.GuestPhone,
		res.CheckIn, res.CheckOut, res.Adults, res.Children, res.Notes,
	).Scan(&res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	res.Status = current

	if err := syncRoomStatusTx(tx, res, roomStatus); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation update: %w", err)
	}
	return nil
}

// ApplyTransition runs the reservation state machine for the given
// action, persists the new status and re-synchronizes the room, in one
// transaction. Returns the updated reservation.
func (r *ReservationRepository) ApplyTransition(id uuid.UUID, action models.ReservationAction) (*models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := lockReservation(tx, id)
	if err != nil {
		return nil, err
	}

	next, err := res.Status.ApplyAction(action)
	if err != nil {
		return nil, err
	}

	if err := finishTransitionTx(tx, res, next); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}
	return res, nil
}

// SyncRoomStatus is the explicit, standalone synchronization step: it
// recomputes and, when changed, writes the room status implied by the
// reservation's current status. Create, Update and ApplyTransition run
// the same step inside their own transactions.
func (r *ReservationRepository) SyncRoomStatus(res *models.Reservation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	roomStatus, err := lockRoom(tx, res.RoomID)
	if err != nil {
		return err
	}
	if err := syncRoomStatusTx(tx, res, roomStatus); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit room sync: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(id uuid.UUID) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := r.db.Get(res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetByCode retrieves a reservation by its human-readable code
func (r *ReservationRepository) GetByCode(code string) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := r.db.Get(res, `SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetDetail retrieves a reservation joined with the room code and the
// derived room-type attributes the engines need.
func (r *ReservationRepository) GetDetail(id uuid.UUID) (*models.ReservationDetail, error) {
	detail := &models.ReservationDetail{}
	query := `
		SELECT r.id, r.code, r.room_id, r.guest_id, r.guest_name, r.guest_email, r.guest_phone,
		       r.check_in, r.check_out, r.adults, r.children, r.status, r.notes,
		       r.created_at, r.updated_at,
		       rm.code AS room_code, rt.default_capacity AS capacity, rt.base_rate AS nightly_rate
		FROM reservations r
		JOIN rooms rm ON rm.id = r.room_id
		JOIN room_types rt ON rt.id = rm.room_type_id
		WHERE r.id = $1
	`
	if err := r.db.Get(detail, query, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// List retrieves reservations matching the filter, newest first. Date
// filters use half-open overlap semantics against [check_in, check_out).
func (r *ReservationRepository) List(f models.ReservationFilter) ([]models.Reservation, error) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.RoomID != uuid.Nil {
		add("room_id = $%d", f.RoomID)
	}
	if f.GuestID != uuid.Nil {
		add("guest_id = $%d", f.GuestID)
	}
	if f.Date != nil {
		add("check_in <= $%d", *f.Date)
		add("check_out > $%d", *f.Date)
	}
	if f.From != nil {
		add("check_out > $%d", *f.From)
	}
	if f.To != nil {
		add("check_in < $%d", *f.To)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	reservations := []models.Reservation{}
	if err := r.db.Select(&reservations, query, args...); err != nil {
		return nil, err
	}
	return reservations, nil
}

// checkOverlapTx counts blocking reservations on the same room whose
// half-open range overlaps the candidate's. Touching ranges do not
// count. excludeID skips the reservation itself on updates.
func (r *ReservationRepository) checkOverlapTx(tx *sqlx.Tx, res *models.Reservation, excludeID *uuid.UUID) error {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE room_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
		  AND check_in < $2
		  AND check_out > $3
		  AND ($4::uuid IS NULL OR id <> $4::uuid)
	`
	var count int
	if err := tx.Get(&count, query, res.RoomID, res.CheckOut, res.CheckIn, excludeID); err != nil {
		return fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if count > 0 {
		return models.ErrOverlappingReservation
	}
	return nil
}

// lockReservation takes the per-reservation write lock and returns the
// row. Writers touching both the reservation and its room lock the
// reservation first.
func lockReservation(tx *sqlx.Tx, id uuid.UUID) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := tx.Get(res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reservation not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return res, nil
}

// finishTransitionTx persists the reservation's new status and
// re-synchronizes its room, locking the room after the reservation.
func finishTransitionTx(tx *sqlx.Tx, res *models.Reservation, next models.ReservationStatus) error {
	err := tx.QueryRowx(
		`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		res.ID, next,
	).Scan(&res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	res.Status = next

	roomStatus, err := lockRoom(tx, res.RoomID)
	if err != nil {
		return err
	}
	return syncRoomStatusTx(tx, res, roomStatus)
}

// lockRoom takes the per-room write lock and returns the room's current
// status. Every reservation write path goes through this lock.
func lockRoom(tx *sqlx.Tx, roomID uuid.UUID) (models.RoomStatus, error) {
	var status models.RoomStatus
	err := tx.Get(&status, `SELECT status FROM rooms WHERE id = $1 FOR UPDATE`, roomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("room not found: %w", err)
		}
		return "", fmt.Errorf("failed to lock room: %w", err)
	}
	return status, nil
}

// syncRoomStatusTx recomputes the room status from the reservation's
// new status and writes it back only when it changed. For terminal
// reservation statuses it first checks whether any other blocking
// reservation still covers today or later, so a cancellation never
// regresses a room held by someone else.
func syncRoomStatusTx(tx *sqlx.Tx, res *models.Reservation, current models.RoomStatus) error {
	othersBlocking := false
	if res.Status.IsTerminal() && !current.IsProtected() {
		query := `
			SELECT EXISTS (
				SELECT 1 FROM reservations
				WHERE room_id = $1
				  AND status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
				  AND check_out > $2
				  AND id <> $3
			)
		`
		if err := tx.Get(&othersBlocking, query, res.RoomID, startOfDay(time.Now()), res.ID); err != nil {
			return fmt.Errorf("failed to check remaining reservations: %w", err)
		}
	}

	next := models.NextRoomStatus(current, res.Status, othersBlocking)
	if next == current {
		return nil
	}

	if _, err := tx.Exec(`UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`, res.RoomID, next); err != nil {
		return fmt.Errorf("failed to sync room status: %w", err)
	}
	return nil
}

// startOfDay returns midnight of t's calendar day in t's location.
// Date boundaries follow the hotel's local day, not UTC.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
