package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelelegance/hotel-ops-backend/internal/services"
)

// ServiceHandler handles the ancillary service catalog and consumption
// HTTP requests.
type ServiceHandler struct {
	consumptionService *services.ConsumptionService
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(consumptionService *services.ConsumptionService) *ServiceHandler {
	return &ServiceHandler{consumptionService: consumptionService}
}

// Catalog handles GET /api/v1/services
func (h *ServiceHandler) Catalog(c *gin.Context) {
	catalog, err := h.consumptionService.Catalog()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": catalog,
		"total":    len(catalog),
	})
}

// Order handles POST /api/v1/reservations/:id/consumptions
func (h *ServiceHandler) Order(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.OrderServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	consumption, err := h.consumptionService.Order(c.Request.Context(), reservationID, req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, consumption)
}

// ListByReservation handles GET /api/v1/reservations/:id/consumptions
func (h *ServiceHandler) ListByReservation(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	consumptions, err := h.consumptionService.ListByReservation(reservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"consumptions": consumptions,
		"total":        len(consumptions),
	})
}

// UpdateQuantityRequest changes a consumption's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateQuantity handles PUT /api/v1/consumptions/:id/quantity
func (h *ServiceHandler) UpdateQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	consumption, err := h.consumptionService.UpdateQuantity(id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, consumption)
}

// Approve handles POST /api/v1/consumptions/:id/approve (staff only)
func (h *ServiceHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.consumptionService.Approve(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "APPROVED"})
}

// Cancel handles POST /api/v1/consumptions/:id/cancel
func (h *ServiceHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.consumptionService.Cancel(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "CANCELLED"})
}

// Pay handles POST /api/v1/consumptions/:id/payments
func (h *ServiceHandler) Pay(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	payment, err := h.consumptionService.Pay(id, req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.consumptionService.Balance(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment": payment,
		"pending": balance,
	})
}

// ListPayments handles GET /api/v1/consumptions/:id/payments
func (h *ServiceHandler) ListPayments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.consumptionService.ListPayments(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}
