package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestApplyAction(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		action  ReservationAction
		want    ReservationStatus
		wantErr bool
	}{
		{"confirm pending", ReservationStatusPending, ActionConfirm, ReservationStatusConfirmed, false},
		{"check in pending", ReservationStatusPending, ActionCheckIn, ReservationStatusCheckedIn, false},
		{"cancel pending", ReservationStatusPending, ActionCancel, ReservationStatusCancelled, false},
		{"check in confirmed", ReservationStatusConfirmed, ActionCheckIn, ReservationStatusCheckedIn, false},
		{"cancel confirmed", ReservationStatusConfirmed, ActionCancel, ReservationStatusCancelled, false},
		{"check out checked in", ReservationStatusCheckedIn, ActionCheckOut, ReservationStatusCheckedOut, false},
		{"check out pending", ReservationStatusPending, ActionCheckOut, ReservationStatusPending, true},
		{"check out confirmed", ReservationStatusConfirmed, ActionCheckOut, ReservationStatusConfirmed, true},
		{"confirm confirmed", ReservationStatusConfirmed, ActionConfirm, ReservationStatusConfirmed, true},
		{"cancel checked in", ReservationStatusCheckedIn, ActionCancel, ReservationStatusCheckedIn, true},
		{"cancel checked out", ReservationStatusCheckedOut, ActionCancel, ReservationStatusCheckedOut, true},
		{"check in cancelled", ReservationStatusCancelled, ActionCheckIn, ReservationStatusCancelled, true},
		{"confirm checked out", ReservationStatusCheckedOut, ActionConfirm, ReservationStatusCheckedOut, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.ApplyAction(tt.action)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTransition))
				assert.Equal(t, tt.from, got, "status must not change on rejection")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStatusesAdmitNoAction(t *testing.T) {
	actions := []ReservationAction{ActionConfirm, ActionCheckIn, ActionCheckOut, ActionCancel}
	for _, status := range []ReservationStatus{ReservationStatusCheckedOut, ReservationStatusCancelled} {
		require.True(t, status.IsTerminal())
		for _, action := range actions {
			_, err := status.ApplyAction(action)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s on %s", action, status)
		}
	}
}

func TestIsBlocking(t *testing.T) {
	assert.True(t, ReservationStatusPending.IsBlocking())
	assert.True(t, ReservationStatusConfirmed.IsBlocking())
	assert.True(t, ReservationStatusCheckedIn.IsBlocking())
	assert.False(t, ReservationStatusCheckedOut.IsBlocking())
	assert.False(t, ReservationStatusCancelled.IsBlocking())
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                 string
		aIn, aOut, bIn, bOut time.Time
		want                 bool
	}{
		{
			"identical ranges",
			date(2024, 1, 10), date(2024, 1, 15),
			date(2024, 1, 10), date(2024, 1, 15),
			true,
		},
		{
			"partial overlap",
			date(2024, 1, 10), date(2024, 1, 15),
			date(2024, 1, 13), date(2024, 1, 20),
			true,
		},
		{
			"contained range",
			date(2024, 1, 10), date(2024, 1, 20),
			date(2024, 1, 12), date(2024, 1, 14),
			true,
		},
		{
			"touching at boundary does not overlap",
			date(2024, 1, 10), date(2024, 1, 15),
			date(2024, 1, 15), date(2024, 1, 20),
			false,
		},
		{
			"touching at boundary reversed",
			date(2024, 1, 15), date(2024, 1, 20),
			date(2024, 1, 10), date(2024, 1, 15),
			false,
		},
		{
			"disjoint ranges",
			date(2024, 1, 1), date(2024, 1, 5),
			date(2024, 1, 10), date(2024, 1, 15),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(tt.aIn, tt.aOut, tt.bIn, tt.bOut))
			// Overlap is symmetric
			assert.Equal(t, tt.want, RangesOverlap(tt.bIn, tt.bOut, tt.aIn, tt.aOut))
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 5, Nights(date(2024, 1, 10), date(2024, 1, 15)))
	assert.Equal(t, 1, Nights(date(2024, 1, 10), date(2024, 1, 11)))
	assert.Equal(t, 0, Nights(date(2024, 1, 10), date(2024, 1, 10)))
	assert.Equal(t, 0, Nights(date(2024, 1, 15), date(2024, 1, 10)), "inverted range clamps to zero")
}

func TestValidateRange(t *testing.T) {
	res := &Reservation{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 15)}
	assert.NoError(t, res.ValidateRange())

	res = &Reservation{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 10)}
	assert.ErrorIs(t, res.ValidateRange(), ErrInvalidRange, "same-day range is invalid")

	res = &Reservation{CheckIn: date(2024, 1, 15), CheckOut: date(2024, 1, 10)}
	assert.ErrorIs(t, res.ValidateRange(), ErrInvalidRange)
}

func TestValidateOccupancy(t *testing.T) {
	res := &Reservation{Adults: 2, Children: 1}
	assert.NoError(t, res.ValidateOccupancy(4))
	assert.NoError(t, res.ValidateOccupancy(3))
	assert.ErrorIs(t, res.ValidateOccupancy(2), ErrCapacityExceeded)

	// Unknown capacity skips the fit check
	assert.NoError(t, res.ValidateOccupancy(0))

	res = &Reservation{Adults: 0, Children: 2}
	assert.ErrorIs(t, res.ValidateOccupancy(4), ErrCapacityExceeded)

	res = &Reservation{Adults: 1, Children: -1}
	assert.ErrorIs(t, res.ValidateOccupancy(4), ErrCapacityExceeded)
}

func TestBuildReservationCode(t *testing.T) {
	code := BuildReservationCode(date(2024, 3, 1), 7)
	assert.Equal(t, "R20240301-0007", code)

	code = BuildReservationCode(date(2024, 12, 31), 1234)
	assert.Equal(t, "R20241231-1234", code)
}

func TestTotalAmount(t *testing.T) {
	res := &Reservation{CheckIn: date(2024, 1, 10), CheckOut: date(2024, 1, 13)}
	rate := decimal.RequireFromString("150.50")
	assert.True(t, res.TotalAmount(rate).Equal(decimal.RequireFromString("451.50")))
}

func TestComputeFinancialSummary(t *testing.T) {
	rate := decimal.RequireFromString("100.00")

	summary := ComputeFinancialSummary(date(2024, 1, 10), date(2024, 1, 15), rate, decimal.RequireFromString("300.00"))
	assert.Equal(t, 5, summary.Nights)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("500.00")))
	assert.True(t, summary.PendingAmount.Equal(decimal.RequireFromString("200.00")))
	assert.False(t, summary.IsFullyPaid)

	summary = ComputeFinancialSummary(date(2024, 1, 10), date(2024, 1, 15), rate, decimal.RequireFromString("500.00"))
	assert.True(t, summary.PendingAmount.IsZero())
	assert.True(t, summary.IsFullyPaid)

	// Overpaid ledgers floor pending at zero instead of going negative
	summary = ComputeFinancialSummary(date(2024, 1, 10), date(2024, 1, 15), rate, decimal.RequireFromString("600.00"))
	assert.True(t, summary.PendingAmount.IsZero())
	assert.True(t, summary.IsFullyPaid)
}
