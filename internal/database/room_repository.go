package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// RoomRepository handles database operations for rooms and room types
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomDetailColumns = `r.id, r.code, r.name, r.room_type_id, r.floor, r.status, r.notes,
	       r.created_at, r.updated_at,
	       rt.name AS type_name, rt.default_capacity AS capacity,
	       rt.default_beds AS beds, rt.base_rate AS nightly_rate`

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(id uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	err := r.db.Get(room, `
		SELECT id, code, name, room_type_id, floor, status, notes, created_at, updated_at
		FROM rooms WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// GetDetail retrieves a room joined with its type so capacity, beds and
// the nightly rate come derived from the catalog, never from the room.
func (r *RoomRepository) GetDetail(id uuid.UUID) (*models.RoomDetail, error) {
	detail := &models.RoomDetail{}
	query := `
		SELECT ` + roomDetailColumns + `
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		WHERE r.id = $1
	`
	if err := r.db.Get(detail, query, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// GetDetailByCode retrieves a room with derived attributes by its code
func (r *RoomRepository) GetDetailByCode(code string) (*models.RoomDetail, error) {
	detail := &models.RoomDetail{}
	query := `
		SELECT ` + roomDetailColumns + `
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
		WHERE r.code = $1
	`
	if err := r.db.Get(detail, query, code); err != nil {
		return nil, err
	}
	return detail, nil
}

// List retrieves all rooms with derived attributes, optionally filtered
// by physical status, ordered by floor then code.
func (r *RoomRepository) List(status models.RoomStatus) ([]models.RoomDetail, error) {
	query := `
		SELECT ` + roomDetailColumns + `
		FROM rooms r
		JOIN room_types rt ON rt.id = r.room_type_id
	`
	args := []interface{}{}
	if status != "" {
		query += " WHERE r.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY r.floor, r.code"

	rooms := []models.RoomDetail{}
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, err
	}
	return rooms, nil
}

// SetMaintenance toggles the explicit maintenance state. Only FREE
// rooms can enter maintenance and only MAINTENANCE rooms can leave it;
// a room held by a reservation is never touched.
func (r *RoomRepository) SetMaintenance(id uuid.UUID, enable bool) (*models.Room, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := lockRoom(tx, id)
	if err != nil {
		return nil, err
	}

	target := models.RoomStatusMaintenance
	if !enable {
		target = models.RoomStatusFree
	}
	if !models.CanToggleMaintenance(current, target) {
		return nil, fmt.Errorf("%w: room is %s", models.ErrInvalidTransition, current)
	}

	room := &models.Room{}
	err = tx.QueryRowx(`
		UPDATE rooms SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, code, name, room_type_id, floor, status, notes, created_at, updated_at`,
		id, target,
	).StructScan(room)
	if err != nil {
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit maintenance toggle: %w", err)
	}
	return room, nil
}

// Occupancy computes the room status readout on demand: the blocking
// reservation covering today, if any, and the next upcoming one.
// Nothing here is stored.
func (r *RoomRepository) Occupancy(id uuid.UUID) (*models.RoomOccupancy, error) {
	detail, err := r.GetDetail(id)
	if err != nil {
		return nil, err
	}

	occ := &models.RoomOccupancy{Room: *detail}
	today := startOfDay(time.Now())

	current := &models.Reservation{}
	err = r.db.Get(current, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE room_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
		  AND check_in <= $2 AND check_out > $2
		ORDER BY check_in
		LIMIT 1`, id, today)
	if err == nil {
		occ.Current = current
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	next := &models.Reservation{}
	err = r.db.Get(next, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE room_id = $1
		  AND status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
		  AND check_in > $2
		ORDER BY check_in
		LIMIT 1`, id, today)
	if err == nil {
		occ.Next = next
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return occ, nil
}

// GetRoomType retrieves a room-type catalog entry by ID
func (r *RoomRepository) GetRoomType(id uuid.UUID) (*models.RoomType, error) {
	rt := &models.RoomType{}
	err := r.db.Get(rt, `
		SELECT id, name, description, default_capacity, default_beds, base_rate
		FROM room_types WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// ListRoomTypes retrieves the room-type catalog
func (r *RoomRepository) ListRoomTypes() ([]models.RoomType, error) {
	types := []models.RoomType{}
	err := r.db.Select(&types, `
		SELECT id, name, description, default_capacity, default_beds, base_rate
		FROM room_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return types, nil
}
