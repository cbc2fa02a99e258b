package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelelegance/hotel-ops-backend/internal/services"
)

// OperationsHandler handles the front-desk operations HTTP requests:
// the daily panel plus physical check-in and check-out.
type OperationsHandler struct {
	stayService *services.StayService
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(stayService *services.StayService) *OperationsHandler {
	return &OperationsHandler{stayService: stayService}
}

// Panel handles GET /api/v1/operations/panel
func (h *OperationsHandler) Panel(c *gin.Context) {
	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_date",
				Message: "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		date = parsed
	}

	panel, err := h.stayService.Panel(date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, panel)
}

// CheckIn handles POST /api/v1/reservations/:id/check-in
func (h *OperationsHandler) CheckIn(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.CheckIn(c.Request.Context(), reservationID, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stay)
}

// CheckOut handles POST /api/v1/reservations/:id/check-out
func (h *OperationsHandler) CheckOut(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.CheckOut(c.Request.Context(), reservationID, actingUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stay)
}

// Stay handles GET /api/v1/reservations/:id/stay
func (h *OperationsHandler) Stay(c *gin.Context) {
	reservationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stay, err := h.stayService.GetByReservation(reservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stay)
}
