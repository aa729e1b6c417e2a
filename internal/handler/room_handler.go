package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomsense/occupancy-backend-go/internal/models"
	"github.com/roomsense/occupancy-backend-go/internal/service"
	"github.com/roomsense/occupancy-backend-go/pkg/response"
)

// RoomHandler handles HTTP requests for room snapshots
type RoomHandler struct {
	refresh *service.RefreshService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(refresh *service.RefreshService) *RoomHandler {
	return &RoomHandler{refresh: refresh}
}

// GetRooms handles GET /api/v1/rooms
//
// The payload always carries inFlight; rooms/refreshedAt appear once a cycle
// has succeeded, lastFailure after a failed one. An empty rooms list is the
// "no data" state, not an error.
func (h *RoomHandler) GetRooms(c *gin.Context) {
	result, failure, inFlight := h.refresh.Session()

	payload := gin.H{"inFlight": inFlight}
	if result != nil {
		payload["rooms"] = result.Rooms
		payload["refreshedAt"] = result.RefreshedAt
		payload["rejectedRows"] = result.RejectedRows
		payload["cycleId"] = result.CycleID
	}
	if failure != nil {
		payload["lastFailure"] = failure
	}
	response.Success(c, payload)
}

// GetSummary handles GET /api/v1/summary
func (h *RoomHandler) GetSummary(c *gin.Context) {
	result, _, _ := h.refresh.Session()
	if result == nil {
		response.Success(c, models.Summary{TierCounts: map[string]int{}})
		return
	}
	response.Success(c, result.Summary)
}

// TriggerRefresh handles POST /api/v1/refresh
func (h *RoomHandler) TriggerRefresh(c *gin.Context) {
	result, err := h.refresh.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRefreshInFlight) {
			response.Accepted(c, "refresh already in progress")
			return
		}
		// Fetch failed; the previous snapshot set is still served by
		// GET /rooms.
		response.Error(c, http.StatusBadGateway, err.Error())
		return
	}
	response.Success(c, result)
}
