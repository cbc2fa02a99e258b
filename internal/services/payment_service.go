package services

import (
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentStore is the persistence surface of the payment ledger. The
// balance check runs inside the store's transaction with the
// reservation row locked.
type PaymentStore interface {
	Record(p *models.Payment) error
	ListByReservation(reservationID uuid.UUID) ([]models.Payment, error)
	SumByReservation(reservationID uuid.UUID) (decimal.Decimal, error)
}

// reservationReader is the read slice needed for financial summaries
type reservationReader interface {
	GetDetail(id uuid.UUID) (*models.ReservationDetail, error)
}

// RecordPaymentRequest carries the input for a ledger entry
type RecordPaymentRequest struct {
	Amount    decimal.Decimal      `json:"amount" binding:"required"`
	Method    models.PaymentMethod `json:"method" binding:"required"`
	Reference string               `json:"reference"`
	Notes     string               `json:"notes"`
}

// PaymentService maintains the append-only payment ledger of a
// reservation and derives its financial readout.
type PaymentService struct {
	payments     PaymentStore
	reservations reservationReader
	logger       *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments PaymentStore, reservations reservationReader, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		payments:     payments,
		reservations: reservations,
		logger:       logger,
	}
}

// Record appends a payment against a reservation. Amount validation
// against the pending balance happens atomically in the store.
func (s *PaymentService) Record(reservationID uuid.UUID, req RecordPaymentRequest, createdBy *uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{
		ReservationID: reservationID,
		Amount:        req.Amount,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	if err := s.payments.Record(payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation": reservationID,
		"invoice":     payment.InvoiceNumber(),
		"amount":      payment.Amount.StringFixed(2),
		"method":      payment.Method,
	}).Info("Payment recorded")

	return payment, nil
}

// List returns all ledger entries of a reservation, oldest first
func (s *PaymentService) List(reservationID uuid.UUID) ([]models.Payment, error) {
	return s.payments.ListByReservation(reservationID)
}

// Summary recomputes the reservation's financial readout from its
// persisted dates, the room type's nightly rate and the cumulative
// paid amount.
func (s *PaymentService) Summary(reservationID uuid.UUID) (*models.FinancialSummary, error) {
	detail, err := s.reservations.GetDetail(reservationID)
	if err != nil {
		return nil, err
	}
	paid, err := s.payments.SumByReservation(reservationID)
	if err != nil {
		return nil, err
	}
	summary := models.ComputeFinancialSummary(detail.CheckIn, detail.CheckOut, detail.Rate, paid)
	return &summary, nil
}
