package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stayRows(stay *models.Stay) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reservation_id", "room_id", "primary_guest", "planned_check_in", "planned_check_out",
		"actual_check_in", "actual_check_out", "status", "recorded_by",
		"created_at", "updated_at",
	}).AddRow(
		stay.ID, stay.ReservationID, stay.RoomID, stay.PrimaryGuest, stay.PlannedCheckIn, stay.PlannedCheckOut,
		stay.ActualCheckIn, stay.ActualCheckOut, stay.Status, stay.RecordedBy,
		stay.CreatedAt, stay.UpdatedAt,
	)
}

func checkInReservation(status models.ReservationStatus) *models.Reservation {
	return &models.Reservation{
		ID:        uuid.New(),
		Code:      "R20240310-0001",
		RoomID:    uuid.New(),
		GuestName: "Ana Torres",
		CheckIn:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Adults:    2,
		Status:    status,
	}
}

func TestStayCheckIn(t *testing.T) {
	t.Run("Creates Stay And Transitions In One Transaction", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusConfirmed)
		now := time.Now()
		staffID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectQuery(`SELECT (.+) FROM stays WHERE reservation_id`).
			WithArgs(res.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO stays`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(res.ID, "CHECKED_IN").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`SELECT status FROM rooms WHERE id`).
			WithArgs(res.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("RESERVED"))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(res.RoomID, "OCCUPIED").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		stay, updated, err := repo.CheckIn(res.ID, &staffID, now)
		require.NoError(t, err)

		assert.Equal(t, models.StayStatusInProgress, stay.Status)
		require.NotNil(t, stay.ActualCheckIn)
		assert.Equal(t, now, *stay.ActualCheckIn)
		assert.Equal(t, res.CheckIn, stay.PlannedCheckIn)
		assert.Equal(t, "Ana Torres", stay.PrimaryGuest)
		assert.Equal(t, &staffID, stay.RecordedBy)
		assert.Equal(t, models.ReservationStatusCheckedIn, updated.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reuses Existing Stay", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusConfirmed)
		existing := &models.Stay{
			ID:              uuid.New(),
			ReservationID:   res.ID,
			RoomID:          res.RoomID,
			PrimaryGuest:    res.GuestName,
			PlannedCheckIn:  res.CheckIn,
			PlannedCheckOut: res.CheckOut,
			Status:          models.StayStatusConfirmed,
		}
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectQuery(`SELECT (.+) FROM stays WHERE reservation_id`).
			WithArgs(res.ID).
			WillReturnRows(stayRows(existing))
		mock.ExpectQuery(`UPDATE stays`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(res.ID, "CHECKED_IN").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`SELECT status FROM rooms WHERE id`).
			WithArgs(res.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("OCCUPIED"))
		mock.ExpectCommit()

		stay, _, err := repo.CheckIn(res.ID, nil, now)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, stay.ID, "no duplicate stay record")
		assert.Equal(t, models.StayStatusInProgress, stay.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Cancelled Reservation Leaves No Writes", func(t *testing.T) {
		// A concurrent cancel wins the reservation lock first: check-in
		// must roll back without touching the stay or the room.
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusCancelled)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectRollback()

		_, _, err := repo.CheckIn(res.ID, nil, time.Now())
		assert.ErrorIs(t, err, models.ErrNotEligible)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStayCheckOut(t *testing.T) {
	t.Run("Finishes Stay And Frees Room", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusCheckedIn)
		arrival := time.Now().Add(-24 * time.Hour)
		existing := &models.Stay{
			ID:              uuid.New(),
			ReservationID:   res.ID,
			RoomID:          res.RoomID,
			PrimaryGuest:    res.GuestName,
			PlannedCheckIn:  res.CheckIn,
			PlannedCheckOut: res.CheckOut,
			ActualCheckIn:   &arrival,
			Status:          models.StayStatusInProgress,
		}
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectQuery(`SELECT (.+) FROM stays WHERE reservation_id`).
			WithArgs(res.ID).
			WillReturnRows(stayRows(existing))
		mock.ExpectQuery(`UPDATE stays`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(res.ID, "CHECKED_OUT").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`SELECT status FROM rooms WHERE id`).
			WithArgs(res.RoomID).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("OCCUPIED"))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(res.RoomID, "FREE").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		stay, updated, err := repo.CheckOut(res.ID, nil, now)
		require.NoError(t, err)
		assert.Equal(t, models.StayStatusFinished, stay.Status)
		require.NotNil(t, stay.ActualCheckOut)
		assert.Equal(t, now, *stay.ActualCheckOut)
		assert.Equal(t, models.ReservationStatusCheckedOut, updated.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stay Not In Progress Rolls Back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusCheckedIn)
		existing := &models.Stay{
			ID:            uuid.New(),
			ReservationID: res.ID,
			RoomID:        res.RoomID,
			Status:        models.StayStatusPending,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectQuery(`SELECT (.+) FROM stays WHERE reservation_id`).
			WithArgs(res.ID).
			WillReturnRows(stayRows(existing))
		mock.ExpectRollback()

		_, _, err := repo.CheckOut(res.ID, nil, time.Now())
		assert.ErrorIs(t, err, models.ErrNotEligible)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Stay Record", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewStayRepository(db)

		res := checkInReservation(models.ReservationStatusCheckedIn)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM reservations WHERE id`).
			WithArgs(res.ID).
			WillReturnRows(reservationRows(res))
		mock.ExpectQuery(`SELECT (.+) FROM stays WHERE reservation_id`).
			WithArgs(res.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, _, err := repo.CheckOut(res.ID, nil, time.Now())
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
