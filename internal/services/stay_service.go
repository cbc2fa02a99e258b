package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/events"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// StayStore is the persistence surface for stay records. CheckIn and
// CheckOut run the stay write, the reservation transition and the room
// synchronization in one transaction.
type StayStore interface {
	CheckIn(reservationID uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error)
	CheckOut(reservationID uuid.UUID, recordedBy *uuid.UUID, now time.Time) (*models.Stay, *models.Reservation, error)
	GetByReservationID(reservationID uuid.UUID) (*models.Stay, error)
	ListInProgress() ([]models.Stay, error)
	ListArrivalsDue(date time.Time) ([]models.Reservation, error)
}

// StayService tracks physical check-in and check-out against the
// reservation state machine. The stay record carries the operational
// timestamps; the reservation status remains the source of truth for
// eligibility.
type StayService struct {
	stays     StayStore
	rooms     RoomStore
	publisher events.Publisher
	logger    *logrus.Logger
}

// NewStayService creates a new StayService. The publisher may be nil,
// which disables event publishing.
func NewStayService(stays StayStore, rooms RoomStore, publisher events.Publisher, logger *logrus.Logger) *StayService {
	return &StayService{
		stays:     stays,
		rooms:     rooms,
		publisher: publisher,
		logger:    logger,
	}
}

// CheckIn records the guest's arrival for a reservation. The
// reservation must be PENDING or CONFIRMED; the stay record is created
// on first arrival if registration never materialized one, and the
// reservation transitions to CHECKED_IN.
func (s *StayService) CheckIn(ctx context.Context, reservationID uuid.UUID, recordedBy *uuid.UUID) (*models.Stay, error) {
	stay, res, err := s.stays.CheckIn(reservationID, recordedBy, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation": res.Code,
		"stay_id":     stay.ID,
	}).Info("Guest checked in")

	s.publish(ctx, string(models.ActionCheckIn), res)
	return stay, nil
}

// CheckOut records the guest's departure. The stay must be in
// progress; the reservation transitions to CHECKED_OUT, which frees
// the room when nothing else blocks it.
func (s *StayService) CheckOut(ctx context.Context, reservationID uuid.UUID, recordedBy *uuid.UUID) (*models.Stay, error) {
	stay, res, err := s.stays.CheckOut(reservationID, recordedBy, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation": res.Code,
		"stay_id":     stay.ID,
	}).Info("Guest checked out")

	s.publish(ctx, string(models.ActionCheckOut), res)
	return stay, nil
}

// GetByReservation returns the stay record linked to a reservation
func (s *StayService) GetByReservation(reservationID uuid.UUID) (*models.Stay, error) {
	return s.stays.GetByReservationID(reservationID)
}

// OperationsPanel is the front-desk overview: reservations due to
// arrive today and stays currently in progress.
type OperationsPanel struct {
	ArrivalsDue []models.Reservation `json:"arrivals_due"`
	InProgress  []models.Stay        `json:"in_progress"`
}

// Panel assembles the front-desk operations panel for a given date
func (s *StayService) Panel(date time.Time) (*OperationsPanel, error) {
	arrivals, err := s.stays.ListArrivalsDue(date)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.stays.ListInProgress()
	if err != nil {
		return nil, err
	}
	return &OperationsPanel{ArrivalsDue: arrivals, InProgress: inProgress}, nil
}

// publish emits a lifecycle event best effort; failures are logged and
// never fail the front-desk operation.
func (s *StayService) publish(ctx context.Context, eventType string, res *models.Reservation) {
	if s.publisher == nil {
		return
	}
	roomCode := ""
	if room, err := s.rooms.GetDetail(res.RoomID); err == nil {
		roomCode = room.Code
	}
	event := events.ReservationEvent{
		Type:     eventType,
		Code:     res.Code,
		RoomCode: roomCode,
		Status:   string(res.Status),
		CheckIn:  res.CheckIn,
		CheckOut: res.CheckOut,
		At:       time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("code", res.Code).Warn("Failed to publish reservation event")
	}
}
