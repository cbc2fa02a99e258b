package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment(t *testing.T) {
	checkIn := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	// 5 nights at 100.00 -> total 500.00

	billingRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"check_in", "check_out", "nightly_rate"}).
			AddRow(checkIn, checkOut, "100.00")
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewPaymentRepository(db)

		reservationID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT r.check_in, r.check_out`).
			WithArgs(reservationID).
			WillReturnRows(billingRows())
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(reservationID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("150.00"))
		mock.ExpectQuery(`INSERT INTO payments`).
			WillReturnRows(sqlmock.NewRows([]string{"invoice_seq", "created_at"}).AddRow(42, time.Now()))
		mock.ExpectCommit()

		p := &models.Payment{
			ReservationID: reservationID,
			Amount:        decimal.RequireFromString("350.00"),
			Method:        models.PaymentMethodCard,
		}
		err := repo.Record(p)
		require.NoError(t, err)
		assert.Equal(t, int64(42), p.InvoiceSeq)
		assert.Equal(t, "FAC-000042", p.InvoiceNumber())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overpay Rejected", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewPaymentRepository(db)

		reservationID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT r.check_in, r.check_out`).
			WithArgs(reservationID).
			WillReturnRows(billingRows())
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(reservationID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("450.00"))
		mock.ExpectRollback()

		p := &models.Payment{
			ReservationID: reservationID,
			Amount:        decimal.RequireFromString("50.01"),
			Method:        models.PaymentMethodCash,
		}
		err := repo.Record(p)
		assert.ErrorIs(t, err, models.ErrAmountExceedsBalance)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Non Positive Amount Rejected", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewPaymentRepository(db)

		reservationID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT r.check_in, r.check_out`).
			WithArgs(reservationID).
			WillReturnRows(billingRows())
		mock.ExpectQuery(`SELECT COALESCE`).
			WithArgs(reservationID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))
		mock.ExpectRollback()

		p := &models.Payment{
			ReservationID: reservationID,
			Amount:        decimal.Zero,
			Method:        models.PaymentMethodCash,
		}
		err := repo.Record(p)
		assert.ErrorIs(t, err, models.ErrInvalidAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reservation Not Found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewPaymentRepository(db)

		reservationID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT r.check_in, r.check_out`).
			WithArgs(reservationID).
			WillReturnRows(sqlmock.NewRows([]string{"check_in", "check_out", "nightly_rate"}))
		mock.ExpectRollback()

		p := &models.Payment{
			ReservationID: reservationID,
			Amount:        decimal.RequireFromString("10.00"),
			Method:        models.PaymentMethodCash,
		}
		err := repo.Record(p)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "reservation not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSumByReservation(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewPaymentRepository(db)

	reservationID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE`).
		WithArgs(reservationID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("275.50"))

	paid, err := repo.SumByReservation(reservationID)
	require.NoError(t, err)
	assert.True(t, paid.Equal(decimal.RequireFromString("275.50")))

	assert.NoError(t, mock.ExpectationsWereMet())
}
