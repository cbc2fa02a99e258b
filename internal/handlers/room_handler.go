package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelelegance/hotel-ops-backend/internal/cache"
	"github.com/hotelelegance/hotel-ops-backend/internal/database"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
)

// RoomHandler handles room-related HTTP requests. Room-type catalog
// reads are display data and go through the redis cache when one is
// configured; a nil cache degrades to direct repository reads.
type RoomHandler struct {
	roomRepo *database.RoomRepository
	catalog  *cache.CatalogCache
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomRepo *database.RoomRepository, catalog *cache.CatalogCache) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo, catalog: catalog}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(c *gin.Context) {
	status := models.RoomStatus(c.Query("status"))

	rooms, err := h.roomRepo.List(status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// Get handles GET /api/v1/rooms/:id
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.roomRepo.GetDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// Occupancy handles GET /api/v1/rooms/:id/occupancy
func (h *RoomHandler) Occupancy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	occupancy, err := h.roomRepo.Occupancy(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, occupancy)
}

// MaintenanceRequest toggles a room's maintenance state
type MaintenanceRequest struct {
	Enable *bool `json:"enable" binding:"required"`
}

// SetMaintenance handles POST /api/v1/rooms/:id/maintenance (staff only)
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	room, err := h.roomRepo.SetMaintenance(id, *req.Enable)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetRoomType handles GET /api/v1/room-types/:id
func (h *RoomHandler) GetRoomType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	roomType, err := h.catalog.RoomType(c.Request.Context(), id, func() (*models.RoomType, error) {
		return h.roomRepo.GetRoomType(id)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, roomType)
}

// ListRoomTypes handles GET /api/v1/room-types
func (h *RoomHandler) ListRoomTypes(c *gin.Context) {
	types, err := h.roomRepo.ListRoomTypes()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_types": types,
		"total":      len(types),
	})
}
