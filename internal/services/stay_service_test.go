package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStayStore mimics the transactional store: a check-in or
// check-out either applies the reservation transition and the stay
// write together, or fails leaving the stay untouched.
type fakeStayStore struct {
	reservation *models.Reservation
	stay        *models.Stay
}

func (f *fakeStayStore) CheckIn(_ uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error) {
	res := f.reservation
	if res.Status != models.ReservationStatusPending && res.Status != models.ReservationStatusConfirmed {
		return nil, nil, fmt.Errorf("%w: reservation %s is %s", models.ErrNotEligible, res.Code, res.Status)
	}
	next, err := res.Status.ApplyAction(models.ActionCheckIn)
	if err != nil {
		return nil, nil, err
	}
	if f.stay == nil {
		f.stay = &models.Stay{
			ID:              uuid.New(),
			ReservationID:   res.ID,
			RoomID:          res.RoomID,
			PrimaryGuest:    res.GuestName,
			PlannedCheckIn:  res.CheckIn,
			PlannedCheckOut: res.CheckOut,
		}
	}
	f.stay.ActualCheckIn = &now
	f.stay.Status = models.StayStatusInProgress
	f.stay.RecordedBy = recordedBy
	res.Status = next
	return f.stay, res, nil
}

func (f *fakeStayStore) CheckOut(_ uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error) {
	if f.stay == nil {
		return nil, nil, sql.ErrNoRows
	}
	if f.stay.Status != models.StayStatusInProgress {
		return nil, nil, fmt.Errorf("%w: stay is %s, not IN_PROGRESS", models.ErrNotEligible, f.stay.Status)
	}
	next, err := f.reservation.Status.ApplyAction(models.ActionCheckOut)
	if err != nil {
		return nil, nil, err
	}
	f.stay.ActualCheckOut = &now
	f.stay.Status = models.StayStatusFinished
	f.stay.RecordedBy = recordedBy
	f.reservation.Status = next
	return f.stay, f.reservation, nil
}

func (f *fakeStayStore) GetByReservationID(uuid.UUID) (*models.Stay, error) {
	if f.stay == nil {
		return nil, sql.ErrNoRows
	}
	return f.stay, nil
}

func (f *fakeStayStore) ListInProgress() ([]models.Stay, error) {
	if f.stay != nil && f.stay.Status == models.StayStatusInProgress {
		return []models.Stay{*f.stay}, nil
	}
	return nil, nil
}

func (f *fakeStayStore) ListArrivalsDue(time.Time) ([]models.Reservation, error) {
	return nil, nil
}

func confirmedReservation() *models.Reservation {
	return &models.Reservation{
		ID:        uuid.New(),
		Code:      "R20240310-0001",
		RoomID:    uuid.New(),
		GuestName: "Ana Torres",
		CheckIn:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:    models.ReservationStatusConfirmed,
	}
}

func TestCheckIn(t *testing.T) {
	t.Run("Creates Stay On First Arrival", func(t *testing.T) {
		stays := &fakeStayStore{reservation: confirmedReservation()}
		publisher := &fakePublisher{}
		svc := NewStayService(stays, &fakeRoomStore{detail: standardRoom()}, publisher, testLogger())

		staffID := uuid.New()
		stay, err := svc.CheckIn(context.Background(), stays.reservation.ID, &staffID)
		require.NoError(t, err)

		assert.Equal(t, models.StayStatusInProgress, stay.Status)
		require.NotNil(t, stay.ActualCheckIn)
		assert.WithinDuration(t, time.Now(), *stay.ActualCheckIn, 5*time.Second)
		assert.Equal(t, stays.reservation.CheckIn, stay.PlannedCheckIn)
		assert.Equal(t, "Ana Torres", stay.PrimaryGuest)
		assert.Equal(t, &staffID, stay.RecordedBy)
		assert.Equal(t, models.ReservationStatusCheckedIn, stays.reservation.Status)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, string(models.ActionCheckIn), publisher.events[0].Type)
		assert.Equal(t, "CHECKED_IN", publisher.events[0].Status)
	})

	t.Run("Cancelled Reservation Not Eligible", func(t *testing.T) {
		res := confirmedReservation()
		res.Status = models.ReservationStatusCancelled
		publisher := &fakePublisher{}
		svc := NewStayService(&fakeStayStore{reservation: res}, &fakeRoomStore{detail: standardRoom()}, publisher, testLogger())

		_, err := svc.CheckIn(context.Background(), res.ID, nil)
		assert.ErrorIs(t, err, models.ErrNotEligible)
		assert.Empty(t, publisher.events, "no event for a rejected check-in")
	})

	t.Run("Nil Publisher Is Safe", func(t *testing.T) {
		stays := &fakeStayStore{reservation: confirmedReservation()}
		svc := NewStayService(stays, &fakeRoomStore{detail: standardRoom()}, nil, testLogger())

		_, err := svc.CheckIn(context.Background(), stays.reservation.ID, nil)
		require.NoError(t, err)
	})
}

func TestCheckOut(t *testing.T) {
	t.Run("Finishes Stay", func(t *testing.T) {
		res := confirmedReservation()
		res.Status = models.ReservationStatusCheckedIn
		stays := &fakeStayStore{
			reservation: res,
			stay: &models.Stay{
				ID:            uuid.New(),
				ReservationID: res.ID,
				Status:        models.StayStatusInProgress,
			},
		}
		publisher := &fakePublisher{}
		svc := NewStayService(stays, &fakeRoomStore{detail: standardRoom()}, publisher, testLogger())

		stay, err := svc.CheckOut(context.Background(), res.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StayStatusFinished, stay.Status)
		require.NotNil(t, stay.ActualCheckOut)
		assert.WithinDuration(t, time.Now(), *stay.ActualCheckOut, 5*time.Second)
		assert.Equal(t, models.ReservationStatusCheckedOut, res.Status)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, string(models.ActionCheckOut), publisher.events[0].Type)
	})

	t.Run("Stay Not In Progress", func(t *testing.T) {
		res := confirmedReservation()
		stays := &fakeStayStore{
			reservation: res,
			stay: &models.Stay{
				ID:            uuid.New(),
				ReservationID: res.ID,
				Status:        models.StayStatusPending,
			},
		}
		svc := NewStayService(stays, &fakeRoomStore{detail: standardRoom()}, nil, testLogger())

		_, err := svc.CheckOut(context.Background(), res.ID, nil)
		assert.ErrorIs(t, err, models.ErrNotEligible)
	})

	t.Run("No Stay Record", func(t *testing.T) {
		res := confirmedReservation()
		svc := NewStayService(&fakeStayStore{reservation: res}, &fakeRoomStore{detail: standardRoom()}, nil, testLogger())

		_, err := svc.CheckOut(context.Background(), res.ID, nil)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
