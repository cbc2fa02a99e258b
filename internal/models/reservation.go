package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the commercial status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationStatusCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
)

// BlockingStatuses are the statuses that reserve physical room capacity.
// Reservations in these statuses participate in overlap detection and in
// room-status synchronization.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCheckedIn,
	}
}

// IsBlocking reports whether the status reserves physical room capacity.
func (s ReservationStatus) IsBlocking() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCheckedOut || s == ReservationStatusCancelled
}

// ReservationAction is a requested state-machine transition
type ReservationAction string

const (
	ActionConfirm  ReservationAction = "confirm"
	ActionCheckIn  ReservationAction = "check_in"
	ActionCheckOut ReservationAction = "check_out"
	ActionCancel   ReservationAction = "cancel"
)

// transitions is the total reservation state machine. Any (status,
// action) pair not listed here is rejected with ErrInvalidTransition.
var transitions = map[ReservationStatus]map[ReservationAction]ReservationStatus{
	ReservationStatusPending: {
		ActionConfirm: ReservationStatusConfirmed,
		ActionCheckIn: ReservationStatusCheckedIn,
		ActionCancel:  ReservationStatusCancelled,
	},
	ReservationStatusConfirmed: {
		ActionCheckIn: ReservationStatusCheckedIn,
		ActionCancel:  ReservationStatusCancelled,
	},
	ReservationStatusCheckedIn: {
		ActionCheckOut: ReservationStatusCheckedOut,
	},
}

// ApplyAction returns the status reached by applying action to s, or
// ErrInvalidTransition when the state machine does not permit it.
func (s ReservationStatus) ApplyAction(action ReservationAction) (ReservationStatus, error) {
	if next, ok := transitions[s][action]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: cannot %s a %s reservation", ErrInvalidTransition, action, s)
}

// Reservation represents a room booking for a half-open date range
// [CheckIn, CheckOut). The code is generated once at creation and is
// immutable thereafter. Financial figures are never stored on the
// reservation; they are computed on demand from the nightly rate and
// the payment ledger.
type Reservation struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	Code       string            `json:"code" db:"code"`
	RoomID     uuid.UUID         `json:"room_id" db:"room_id"`
	GuestID    *uuid.UUID        `json:"guest_id,omitempty" db:"guest_id"`
	GuestName  string            `json:"guest_name" db:"guest_name"`
	GuestEmail string            `json:"guest_email" db:"guest_email"`
	GuestPhone string            `json:"guest_phone" db:"guest_phone"`
	CheckIn    time.Time         `json:"check_in" db:"check_in"`
	CheckOut   time.Time         `json:"check_out" db:"check_out"`
	Adults     int               `json:"adults" db:"adults"`
	Children   int               `json:"children" db:"children"`
	Status     ReservationStatus `json:"status" db:"status"`
	Notes      string            `json:"notes" db:"notes"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// ReservationDetail is a reservation joined with the room attributes the
// engines need for validation and billing.
type ReservationDetail struct {
	Reservation
	RoomCode string          `json:"room_code" db:"room_code"`
	Capacity int             `json:"capacity" db:"capacity"`
	Rate     decimal.Decimal `json:"nightly_rate" db:"nightly_rate"`
}

// ReservationFilter narrows reservation queries. Zero values are
// ignored. Date and From/To probe overlap against the reservation's
// half-open range.
type ReservationFilter struct {
	Status  ReservationStatus
	RoomID  uuid.UUID
	GuestID uuid.UUID
	Date    *time.Time
	From    *time.Time
	To      *time.Time
}

// RangesOverlap reports whether the half-open intervals [aIn, aOut) and
// [bIn, bOut) overlap. Touching ranges, where one check-out equals the
// other's check-in, do not overlap.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Nights returns the number of nights between check-in and check-out,
// never negative.
func Nights(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// Nights returns the number of nights of the reservation.
func (r *Reservation) Nights() int {
	return Nights(r.CheckIn, r.CheckOut)
}

// TotalAmount returns nights × nightly rate for the reservation.
func (r *Reservation) TotalAmount(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(r.Nights())))
}

// ValidateRange checks check_out > check_in.
func (r *Reservation) ValidateRange() error {
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// ValidateOccupancy checks adults >= 1, children >= 0 and, when the
// capacity is known (> 0), that the party fits the room type.
func (r *Reservation) ValidateOccupancy(capacity int) error {
	if r.Adults < 1 || r.Children < 0 {
		return fmt.Errorf("%w: at least one adult is required", ErrCapacityExceeded)
	}
	if capacity > 0 && r.Adults+r.Children > capacity {
		return fmt.Errorf("%w: %d guests do not fit a room for %d", ErrCapacityExceeded, r.Adults+r.Children, capacity)
	}
	return nil
}

// BuildReservationCode formats the human-readable reservation code for
// the given creation date and per-day sequence, e.g. R20240301-0007.
func BuildReservationCode(createdAt time.Time, seq int) string {
	return fmt.Sprintf("R%s-%04d", createdAt.Format("20060102"), seq)
}

// FinancialSummary is the derived financial readout of a reservation.
// It is recomputed from the persisted fields and the full payment set on
// every call; nothing here is cached.
type FinancialSummary struct {
	Nights        int             `json:"nights"`
	NightlyRate   decimal.Decimal `json:"nightly_rate"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	IsFullyPaid   bool            `json:"is_fully_paid"`
}

// ComputeFinancialSummary derives the financial readout from the
// reservation dates, the nightly rate and the cumulative paid amount.
// The pending amount is floored at zero.
func ComputeFinancialSummary(checkIn, checkOut time.Time, rate, paid decimal.Decimal) FinancialSummary {
	nights := Nights(checkIn, checkOut)
	total := rate.Mul(decimal.NewFromInt(int64(nights)))
	pending := total.Sub(paid)
	if pending.IsNegative() {
		pending = decimal.Zero
	}
	return FinancialSummary{
		Nights:        nights,
		NightlyRate:   rate,
		TotalAmount:   total,
		PaidAmount:    paid,
		PendingAmount: pending,
		IsFullyPaid:   !pending.IsPositive(),
	}
}
