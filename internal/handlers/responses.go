package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps domain errors onto HTTP status codes. Validation
// failures are 400, missing rows 404, state conflicts 409, business
// rule rejections 422, everything else a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidRange),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case errors.Is(err, models.ErrOverlappingReservation),
		errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrNotEligible),
		errors.Is(err, models.ErrAmountExceedsBalance):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "rule_violation",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}

// parseIDParam parses a UUID path parameter, writing a 400 response on
// failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + name + " format",
		})
		return uuid.Nil, false
	}
	return id, true
}
