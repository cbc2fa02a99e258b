package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceCategory groups catalog services
type ServiceCategory string

const (
	ServiceCategoryRoomService ServiceCategory = "ROOM_SERVICE"
	ServiceCategoryRestaurant  ServiceCategory = "RESTAURANT"
	ServiceCategoryLaundry     ServiceCategory = "LAUNDRY"
	ServiceCategorySpa         ServiceCategory = "SPA"
	ServiceCategoryTransport   ServiceCategory = "TRANSPORT"
	ServiceCategoryOther       ServiceCategory = "OTHER"
)

// Service is an ancillary service catalog entry. The catalog is managed
// outside the core; the engines only read it.
type Service struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    ServiceCategory `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	BasePrice   decimal.Decimal `json:"base_price" db:"base_price"`
	Active      bool            `json:"active" db:"active"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ConsumptionStatus represents the lifecycle of a service consumption
type ConsumptionStatus string

const (
	ConsumptionStatusPending   ConsumptionStatus = "PENDING"
	ConsumptionStatusApproved  ConsumptionStatus = "APPROVED"
	ConsumptionStatusInvoiced  ConsumptionStatus = "INVOICED"
	ConsumptionStatusCancelled ConsumptionStatus = "CANCELLED"
)

// ServiceConsumption is a service order tied to a reservation. The unit
// price is snapshotted at order time: later catalog price changes never
// affect existing orders. The total is recomputed whenever quantity or
// unit price change.
type ServiceConsumption struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	ReservationID uuid.UUID         `json:"reservation_id" db:"reservation_id"`
	ServiceID     uuid.UUID         `json:"service_id" db:"service_id"`
	ServiceName   string            `json:"service_name" db:"service_name"`
	Quantity      int               `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal   `json:"unit_price" db:"unit_price"`
	Total         decimal.Decimal   `json:"total" db:"total"`
	Status        ConsumptionStatus `json:"status" db:"status"`
	Notes         string            `json:"notes" db:"notes"`
	AddedBy       *uuid.UUID        `json:"added_by,omitempty" db:"added_by"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// ComputeTotal recomputes the consumption total from quantity and unit
// price. It is called at save time and after any quantity or price
// update.
func (c *ServiceConsumption) ComputeTotal() {
	c.Total = c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// SnapshotUnitPrice fixes the unit price at order time: a provided
// nonzero price wins, otherwise the service's current base price is
// copied onto the order.
func (c *ServiceConsumption) SnapshotUnitPrice(basePrice decimal.Decimal) {
	if c.UnitPrice.IsZero() {
		c.UnitPrice = basePrice
	}
}

// ServicePayment is the service-level counterpart of Payment: an
// immutable ledger entry against a single consumption.
type ServicePayment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ConsumptionID uuid.UUID       `json:"consumption_id" db:"consumption_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        PaymentMethod   `json:"method" db:"method"`
	Reference     string          `json:"reference" db:"reference"`
	Notes         string          `json:"notes" db:"notes"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// PendingBalance returns total minus paid, floored at zero.
func PendingBalance(total, paid decimal.Decimal) decimal.Decimal {
	pending := total.Sub(paid)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}
