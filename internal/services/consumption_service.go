package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/cache"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ConsumptionStore is the persistence surface for service orders and
// their payment ledger.
type ConsumptionStore interface {
	Create(c *models.ServiceConsumption) error
	GetByID(id uuid.UUID) (*models.ServiceConsumption, error)
	ListByReservation(reservationID uuid.UUID) ([]models.ServiceConsumption, error)
	UpdateQuantity(id uuid.UUID, quantity int) (*models.ServiceConsumption, error)
	UpdateStatus(id uuid.UUID, status models.ConsumptionStatus) error
	RecordPayment(p *models.ServicePayment) error
	ListPayments(consumptionID uuid.UUID) ([]models.ServicePayment, error)
	SumPayments(consumptionID uuid.UUID) (decimal.Decimal, error)
}

// ServiceCatalog provides catalog reads for ordering
type ServiceCatalog interface {
	GetByID(id uuid.UUID) (*models.Service, error)
	ListActive() ([]models.Service, error)
}

// OrderServiceRequest carries the input for a service order. A zero
// unit price means "use the catalog base price".
type OrderServiceRequest struct {
	ServiceID uuid.UUID       `json:"service_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes"`
}

// ConsumptionService handles ancillary service orders against
// reservations: price snapshotting at order time, quantity edits,
// status changes and the per-order payment ledger.
type ConsumptionService struct {
	consumptions ConsumptionStore
	catalog      ServiceCatalog
	catalogCache *cache.CatalogCache
	logger       *logrus.Logger
}

// NewConsumptionService creates a new ConsumptionService. The cache may
// be nil, in which case catalog reads always hit the database.
func NewConsumptionService(
	consumptions ConsumptionStore,
	catalog ServiceCatalog,
	catalogCache *cache.CatalogCache,
	logger *logrus.Logger,
) *ConsumptionService {
	return &ConsumptionService{
		consumptions: consumptions,
		catalog:      catalog,
		catalogCache: catalogCache,
		logger:       logger,
	}
}

// Order creates a service consumption for a reservation. The unit
// price is snapshotted now: the catalog's base price unless the caller
// fixed one, and later catalog changes never touch this order.
func (s *ConsumptionService) Order(ctx context.Context, reservationID uuid.UUID, req OrderServiceRequest, addedBy *uuid.UUID) (*models.ServiceConsumption, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", models.ErrInvalidQuantity)
	}

	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, fmt.Errorf("%w: service %s is not active", models.ErrNotEligible, svc.Name)
	}

	consumption := &models.ServiceConsumption{
		ReservationID: reservationID,
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Status:        models.ConsumptionStatusPending,
		Notes:         req.Notes,
		AddedBy:       addedBy,
	}
	consumption.SnapshotUnitPrice(svc.BasePrice)

	if err := s.consumptions.Create(consumption); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation": reservationID,
		"service":     svc.Name,
		"quantity":    consumption.Quantity,
		"total":       consumption.Total.StringFixed(2),
	}).Info("Service ordered")

	return consumption, nil
}

// UpdateQuantity changes the quantity of a pending or approved order
// and recomputes its total at the snapshotted unit price.
func (s *ConsumptionService) UpdateQuantity(id uuid.UUID, quantity int) (*models.ServiceConsumption, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", models.ErrInvalidQuantity)
	}

	current, err := s.consumptions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.ConsumptionStatusPending && current.Status != models.ConsumptionStatusApproved {
		return nil, fmt.Errorf("%w: consumption is %s", models.ErrNotEligible, current.Status)
	}

	return s.consumptions.UpdateQuantity(id, quantity)
}

// Approve marks a pending order as approved
func (s *ConsumptionService) Approve(id uuid.UUID) error {
	current, err := s.consumptions.GetByID(id)
	if err != nil {
		return err
	}
	if current.Status != models.ConsumptionStatusPending {
		return fmt.Errorf("%w: consumption is %s", models.ErrInvalidTransition, current.Status)
	}
	return s.consumptions.UpdateStatus(id, models.ConsumptionStatusApproved)
}

// Cancel voids an order that has not been invoiced yet
func (s *ConsumptionService) Cancel(id uuid.UUID) error {
	current, err := s.consumptions.GetByID(id)
	if err != nil {
		return err
	}
	if current.Status == models.ConsumptionStatusInvoiced {
		return fmt.Errorf("%w: invoiced consumptions cannot be cancelled", models.ErrInvalidTransition)
	}
	return s.consumptions.UpdateStatus(id, models.ConsumptionStatusCancelled)
}

// Pay appends a payment against a consumption. Balance validation and
// the automatic INVOICED transition on full payment happen atomically
// in the store.
func (s *ConsumptionService) Pay(id uuid.UUID, req RecordPaymentRequest, createdBy *uuid.UUID) (*models.ServicePayment, error) {
	payment := &models.ServicePayment{
		ConsumptionID: id,
		Amount:        req.Amount,
		Method:        req.Method,
		Reference:     req.Reference,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	if err := s.consumptions.RecordPayment(payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"consumption": id,
		"amount":      payment.Amount.StringFixed(2),
	}).Info("Service payment recorded")

	return payment, nil
}

// Get returns a single consumption
func (s *ConsumptionService) Get(id uuid.UUID) (*models.ServiceConsumption, error) {
	return s.consumptions.GetByID(id)
}

// ListByReservation returns all consumptions of a reservation
func (s *ConsumptionService) ListByReservation(reservationID uuid.UUID) ([]models.ServiceConsumption, error) {
	return s.consumptions.ListByReservation(reservationID)
}

// ListPayments returns the payment ledger of a consumption
func (s *ConsumptionService) ListPayments(id uuid.UUID) ([]models.ServicePayment, error) {
	return s.consumptions.ListPayments(id)
}

// Balance returns the pending balance of a consumption
func (s *ConsumptionService) Balance(id uuid.UUID) (decimal.Decimal, error) {
	consumption, err := s.consumptions.GetByID(id)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := s.consumptions.SumPayments(id)
	if err != nil {
		return decimal.Zero, err
	}
	return models.PendingBalance(consumption.Total, paid), nil
}

// Catalog lists the active service catalog
func (s *ConsumptionService) Catalog() ([]models.Service, error) {
	return s.catalog.ListActive()
}

func (s *ConsumptionService) lookupService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if s.catalogCache == nil {
		return s.catalog.GetByID(id)
	}
	return s.catalogCache.Service(ctx, id, func() (*models.Service, error) {
		return s.catalog.GetByID(id)
	})
}
