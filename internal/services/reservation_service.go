package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/events"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ReservationStore is the persistence surface the reservation engine
// drives. The sqlx repository implements it; tests substitute fakes.
type ReservationStore interface {
	Create(res *models.Reservation) error
	Update(res *models.Reservation) error
	ApplyTransition(id uuid.UUID, action models.ReservationAction) (*models.Reservation, error)
	SyncRoomStatus(res *models.Reservation) error
	GetByID(id uuid.UUID) (*models.Reservation, error)
	GetDetail(id uuid.UUID) (*models.ReservationDetail, error)
	List(f models.ReservationFilter) ([]models.Reservation, error)
}

// RoomStore provides room lookups with type-derived attributes
type RoomStore interface {
	GetDetail(id uuid.UUID) (*models.RoomDetail, error)
}

// GuestDirectory provides read-only guest profile lookups for
// auto-filling reservation contact fields.
type GuestDirectory interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// CreateReservationRequest carries the input for a new reservation
type CreateReservationRequest struct {
	RoomID     uuid.UUID  `json:"room_id" binding:"required"`
	GuestID    *uuid.UUID `json:"guest_id,omitempty"`
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
	GuestPhone string     `json:"guest_phone"`
	CheckIn    time.Time  `json:"check_in" binding:"required"`
	CheckOut   time.Time  `json:"check_out" binding:"required"`
	Adults     int        `json:"adults"`
	Children   int        `json:"children"`
	Notes      string     `json:"notes"`
}

// ReservationService validates reservation requests and drives the
// reservation state machine. The overlap invariant itself is enforced
// by the store inside its transaction; everything checkable without a
// lock happens here first so invalid requests never reach the database.
type ReservationService struct {
	reservations ReservationStore
	rooms        RoomStore
	guests       GuestDirectory
	publisher    events.Publisher
	logger       *logrus.Logger
}

// NewReservationService creates a new ReservationService. The publisher
// may be nil, which disables event publishing.
func NewReservationService(
	reservations ReservationStore,
	rooms RoomStore,
	guests GuestDirectory,
	publisher events.Publisher,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		guests:       guests,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create validates the request, auto-fills guest contact data and
// persists the reservation with status PENDING. Overlap detection and
// room synchronization happen atomically in the store.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	res := &models.Reservation{
		RoomID:     req.RoomID,
		GuestID:    req.GuestID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Adults:     req.Adults,
		Children:   req.Children,
		Notes:      req.Notes,
	}

	if err := res.ValidateRange(); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetDetail(req.RoomID)
	if err != nil {
		return nil, err
	}
	if err := res.ValidateOccupancy(room.Capacity); err != nil {
		return nil, err
	}

	s.fillGuestContact(res)

	if err := s.reservations.Create(res); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"code":      res.Code,
		"room":      room.Code,
		"check_in":  res.CheckIn.Format("2006-01-02"),
		"check_out": res.CheckOut.Format("2006-01-02"),
	}).Info("Reservation created")

	s.publish(ctx, "created", res, room.Code)
	return res, nil
}

// Update edits an existing reservation's dates, occupancy and contact
// fields; the store re-validates overlap excluding the reservation
// itself.
func (s *ReservationService) Update(ctx context.Context, id uuid.UUID, req CreateReservationRequest) (*models.Reservation, error) {
	current, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}

	res := &models.Reservation{
		ID:         current.ID,
		Code:       current.Code,
		RoomID:     current.RoomID,
		GuestID:    req.GuestID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Adults:     req.Adults,
		Children:   req.Children,
		Notes:      req.Notes,
	}

	if err := res.ValidateRange(); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetDetail(res.RoomID)
	if err != nil {
		return nil, err
	}
	if err := res.ValidateOccupancy(room.Capacity); err != nil {
		return nil, err
	}

	s.fillGuestContact(res)

	if err := s.reservations.Update(res); err != nil {
		return nil, err
	}

	s.logger.WithField("code", res.Code).Info("Reservation updated")
	return res, nil
}

// Transition applies a state-machine action (confirm, check_in,
// check_out, cancel) and returns the updated reservation. The store
// persists the new status and re-runs room synchronization atomically.
func (s *ReservationService) Transition(ctx context.Context, id uuid.UUID, action models.ReservationAction) (*models.Reservation, error) {
	res, err := s.reservations.ApplyTransition(id, action)
	if err != nil {
		return nil, err
	}

	roomCode := ""
	if room, roomErr := s.rooms.GetDetail(res.RoomID); roomErr == nil {
		roomCode = room.Code
	}

	s.logger.WithFields(logrus.Fields{
		"code":   res.Code,
		"action": action,
		"status": res.Status,
	}).Info("Reservation transitioned")

	s.publish(ctx, string(action), res, roomCode)
	return res, nil
}

// SyncRoomStatus recomputes the room status implied by the
// reservation's current status and persists it when changed. Every
// mutation runs the same step in its own transaction; this is the
// standalone entry point for repairing a room after out-of-band data
// changes.
func (s *ReservationService) SyncRoomStatus(id uuid.UUID) (*models.Reservation, error) {
	res, err := s.reservations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.reservations.SyncRoomStatus(res); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"code":   res.Code,
		"status": res.Status,
	}).Info("Room status synchronized")
	return res, nil
}

// Get retrieves a reservation by ID
func (s *ReservationService) Get(id uuid.UUID) (*models.Reservation, error) {
	return s.reservations.GetByID(id)
}

// List retrieves reservations matching the filter
func (s *ReservationService) List(f models.ReservationFilter) ([]models.Reservation, error) {
	return s.reservations.List(f)
}

// fillGuestContact copies missing contact fields from the registered
// guest profile, when one is linked. A reservation without a linked
// guest keeps whatever the caller provided.
func (s *ReservationService) fillGuestContact(res *models.Reservation) {
	if res.GuestID == nil {
		return
	}
	guest, err := s.guests.GetByID(*res.GuestID)
	if err != nil {
		return
	}
	if res.GuestName == "" {
		res.GuestName = guest.FullName
	}
	if res.GuestEmail == "" {
		res.GuestEmail = guest.Email
	}
	if res.GuestPhone == "" {
		res.GuestPhone = guest.Phone
	}
}

// publish emits a lifecycle event best effort; failures are logged and
// never fail the reservation operation.
func (s *ReservationService) publish(ctx context.Context, eventType string, res *models.Reservation, roomCode string) {
	if s.publisher == nil {
		return
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
