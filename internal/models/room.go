package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomStatus represents the physical status of a room
type RoomStatus string

const (
	RoomStatusFree        RoomStatus = "FREE"
	RoomStatusReserved    RoomStatus = "RESERVED"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusBlocked     RoomStatus = "BLOCKED"
)

// IsProtected reports whether the status is set by operations staff and
// must never be overwritten by reservation synchronization.
func (s RoomStatus) IsProtected() bool {
	return s == RoomStatusMaintenance || s == RoomStatusBlocked
}

// RoomType is a catalog entry managed outside the core. Capacity, beds
// and the nightly rate of every room are derived from its type and are
// never stored redundantly on the room itself.
type RoomType struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Description     string          `json:"description" db:"description"`
	DefaultCapacity int             `json:"default_capacity" db:"default_capacity"`
	DefaultBeds     int             `json:"default_beds" db:"default_beds"`
	BaseRate        decimal.Decimal `json:"base_rate" db:"base_rate"`
}

// Room represents a physical room in the hotel
type Room struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Code       string     `json:"code" db:"code"`
	Name       string     `json:"name" db:"name"`
	RoomTypeID uuid.UUID  `json:"room_type_id" db:"room_type_id"`
	Floor      int        `json:"floor" db:"floor"`
	Status     RoomStatus `json:"status" db:"status"`
	Notes      string     `json:"notes" db:"notes"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// RoomDetail is a room joined with its type so that derived attributes
// are available without a second lookup.
type RoomDetail struct {
	Room
	TypeName string          `json:"type_name" db:"type_name"`
	Capacity int             `json:"capacity" db:"capacity"`
	Beds     int             `json:"beds" db:"beds"`
	Rate     decimal.Decimal `json:"nightly_rate" db:"nightly_rate"`
}

// RoomOccupancy is the on-demand room status readout: the current
// physical status plus the reservation occupying the room now and the
// next one coming up. It is computed from the store on every call and
// never persisted.
type RoomOccupancy struct {
	Room    RoomDetail   `json:"room"`
	Current *Reservation `json:"current_reservation,omitempty"`
	Next    *Reservation `json:"next_reservation,omitempty"`
}

// NextRoomStatus computes the room status implied by a reservation
// status change. It is the single source of the synchronization rules:
//
//   - MAINTENANCE and BLOCKED always win; they are never overwritten here.
//   - A checked-in reservation makes the room OCCUPIED.
//   - A pending or confirmed reservation makes the room RESERVED.
//   - A checked-out or cancelled reservation releases the room to FREE
//     only when no other blocking reservation still covers today or
//     later; otherwise the current status stands (do not regress a room
//     another reservation is holding).
//
// Callers write the result back only when it differs from current, so
// re-running synchronization with no state change produces no writes.
func NextRoomStatus(current RoomStatus, res ReservationStatus, othersStillBlocking bool) RoomStatus {
	if current.IsProtected() {
		return current
	}

	switch res {
	case ReservationStatusCheckedIn:
		return RoomStatusOccupied
	case ReservationStatusPending, ReservationStatusConfirmed:
		return RoomStatusReserved
	case ReservationStatusCheckedOut, ReservationStatusCancelled:
		if !othersStillBlocking {
			return RoomStatusFree
		}
	}

	return current
}

// CanToggleMaintenance reports whether the explicit maintenance toggle
// is permitted. Only FREE rooms can enter maintenance and only rooms in
// maintenance can leave it; rooms held by a reservation cannot be
// toggled.
func CanToggleMaintenance(current, target RoomStatus) bool {
	if current == RoomStatusFree && target == RoomStatusMaintenance {
		return true
	}
	if current == RoomStatusMaintenance && target == RoomStatusFree {
		return true
	}
	return false
}
