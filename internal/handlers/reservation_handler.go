package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/middleware"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/hotelelegance/hotel-ops-backend/internal/services"
)

// ReservationHandler handles reservation-related HTTP requests
type ReservationHandler struct {
	reservationService *services.ReservationService
	paymentService     *services.PaymentService
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(reservationService *services.ReservationService, paymentService *services.PaymentService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		paymentService:     paymentService,
	}
}

// Create handles POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	// A logged-in client books for themselves unless staff say otherwise
	if userCtx, ok := middleware.GetUserContext(c); ok && userCtx.Role == models.RoleClient {
		req.GuestID = &userCtx.UserID
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// Get handles GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// List handles GET /api/v1/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	filter := models.ReservationFilter{
		Status: models.ReservationStatus(c.Query("status")),
	}

	if roomIDStr := c.Query("room_id"); roomIDStr != "" {
		roomID, err := uuid.Parse(roomIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid room_id format",
			})
			return
		}
		filter.RoomID = roomID
	}

	if guestIDStr := c.Query("guest_id"); guestIDStr != "" {
		guestID, err := uuid.Parse(guestIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Invalid guest_id format",
			})
			return
		}
		filter.GuestID = guestID
	}

	for param, dest := range map[string]**time.Time{
		"date": &filter.Date,
		"from": &filter.From,
		"to":   &filter.To,
	} {
		if value := c.Query(param); value != "" {
			parsed, err := time.Parse("2006-01-02", value)
			if err != nil {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:   "invalid_date",
					Message: "Invalid " + param + " format, expected YYYY-MM-DD",
				})
				return
			}
			*dest = &parsed
		}
	}

	reservations, err := h.reservationService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"total":        len(reservations),
	})
}

// Update handles PUT /api/v1/reservations/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	reservation, err := h.reservationService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// TransitionRequest carries a state-machine action
type TransitionRequest struct {
	Action models.ReservationAction `json:"action" binding:"required"`
}

// Transition handles POST /api/v1/reservations/:id/transition
func (h *ReservationHandler) Transition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	reservation, err := h.reservationService.Transition(c.Request.Context(), id, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// SyncRoomStatus handles POST /api/v1/reservations/:id/sync-room
// (staff only). It re-runs the room synchronization step for the
// reservation, repairing the room status after out-of-band changes.
func (h *ReservationHandler) SyncRoomStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := h.reservationService.SyncRoomStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// Summary handles GET /api/v1/reservations/:id/summary
func (h *ReservationHandler) Summary(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.paymentService.Summary(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
