package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/middleware"
	"github.com/hotelelegance/hotel-ops-backend/internal/services"
)

// PaymentHandler handles reservation payment HTTP requests
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles POST /api/v1/reservations/:id/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
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

	payment, err := h.paymentService.Record(reservationID, req, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment": payment,
		"invoice": payment.InvoiceNumber(),
	})
}

// List handles GET /api/v1/reservations/:id/payments
func (h *PaymentHandler) List(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.List(reservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

// actingUser returns the authenticated user's id for audit fields, nil
// when the route is reached unauthenticated.
func actingUser(c *gin.Context) *uuid.UUID {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		return nil
	}
	return &userCtx.UserID
}
