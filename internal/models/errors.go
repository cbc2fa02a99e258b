package models

import "errors"

// Domain errors returned by the engines. The messages are the
// human-readable reasons shown to callers, so they must stand on
// their own without further translation. Handlers translate these
// into HTTP status codes with errors.Is.
var (
	// ErrInvalidRange is returned when check-out is not after check-in.
	ErrInvalidRange = errors.New("check-out date must be after check-in date")

	// ErrCapacityExceeded is returned when the requested occupancy does
	// not fit the room type's capacity.
	ErrCapacityExceeded = errors.New("occupants exceed the room capacity")

	// ErrOverlappingReservation is returned when an active reservation
	// already blocks the room for part of the requested range.
	ErrOverlappingReservation = errors.New("the room is already reserved in that date range")

	// ErrInvalidTransition is returned when a status change is not
	// permitted from the reservation's current status.
	ErrInvalidTransition = errors.New("status transition not permitted from current status")

	// ErrNotEligible is returned when a check-in or check-out is
	// attempted on a reservation or stay that is not in a valid
	// precursor state.
	ErrNotEligible = errors.New("not eligible for this operation in its current status")

	// ErrInvalidAmount is returned for non-positive payment amounts.
	ErrInvalidAmount = errors.New("payment amount must be greater than zero")

	// ErrAmountExceedsBalance is returned when a payment would overpay
	// the pending balance. Payments are never partially accepted or
	// silently clipped.
	ErrAmountExceedsBalance = errors.New("payment amount exceeds the pending balance")

	// ErrInvalidQuantity is returned for non-positive service order
	// quantities.
	ErrInvalidQuantity = errors.New("service quantity must be at least 1")
)
