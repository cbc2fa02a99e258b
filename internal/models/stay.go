package models

import (
	"time"

	"github.com/google/uuid"
)

// StayStatus tracks the operational progress of a stay, distinct from
// the reservation's commercial status.
type StayStatus string

const (
	StayStatusPending    StayStatus = "PENDING"
	StayStatusConfirmed  StayStatus = "CONFIRMED"
	StayStatusInProgress StayStatus = "IN_PROGRESS"
	StayStatusFinished   StayStatus = "FINISHED"
	StayStatusCancelled  StayStatus = "CANCELLED"
)

// Stay records the actual hotel stay for a reservation: one stay per
// reservation, planned dates copied from the reservation at creation,
// real check-in/check-out timestamps set when the events happen. Stays
// are never deleted.
type Stay struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ReservationID   uuid.UUID  `json:"reservation_id" db:"reservation_id"`
	RoomID          uuid.UUID  `json:"room_id" db:"room_id"`
	PrimaryGuest    string     `json:"primary_guest" db:"primary_guest"`
	PlannedCheckIn  time.Time  `json:"planned_check_in" db:"planned_check_in"`
	PlannedCheckOut time.Time  `json:"planned_check_out" db:"planned_check_out"`
	ActualCheckIn   *time.Time `json:"actual_check_in,omitempty" db:"actual_check_in"`
	ActualCheckOut  *time.Time `json:"actual_check_out,omitempty" db:"actual_check_out"`
	Status          StayStatus `json:"status" db:"status"`
	RecordedBy      *uuid.UUID `json:"recorded_by,omitempty" db:"recorded_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
