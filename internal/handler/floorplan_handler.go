package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/roomsense/occupancy-backend-go/internal/floorplan"
	"github.com/roomsense/occupancy-backend-go/internal/models"
	"github.com/roomsense/occupancy-backend-go/internal/service"
	"github.com/roomsense/occupancy-backend-go/pkg/response"
)

// FloorplanHandler merges room placements with the latest snapshots for the
// dashboard's plan view.
type FloorplanHandler struct {
	plan    *floorplan.Plan
	refresh *service.RefreshService
}

// NewFloorplanHandler creates a new floor-plan handler. plan may be nil when
// the deployment has no plan configured.
func NewFloorplanHandler(plan *floorplan.Plan, refresh *service.RefreshService) *FloorplanHandler {
	return &FloorplanHandler{plan: plan, refresh: refresh}
}

// PlacedRoom is one room rectangle plus its latest snapshot, if any.
type PlacedRoom struct {
	RoomID   string               `json:"roomId"`
	X        float64              `json:"x"`
	Y        float64              `json:"y"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Snapshot *models.RoomSnapshot `json:"snapshot,omitempty"`
}

// GetFloorplan handles GET /api/v1/floorplan
func (h *FloorplanHandler) GetFloorplan(c *gin.Context) {
	if h.plan == nil {
		response.NotFound(c, "No floor plan configured")
		return
	}

	byRoom := make(map[string]*models.RoomSnapshot)
	if result, _, _ := h.refresh.Session(); result != nil {
		for i := range result.Rooms {
			byRoom[result.Rooms[i].RoomID] = &result.Rooms[i]
		}
	}

	placements := h.plan.Rooms()
	placed := make([]PlacedRoom, 0, len(placements))
	for _, p := range placements {
		placed = append(placed, PlacedRoom{
			RoomID:   p.RoomID,
			X:        p.Rect.X.Lo,
			Y:        p.Rect.Y.Lo,
			Width:    p.Rect.X.Length(),
			Height:   p.Rect.Y.Length(),
			Snapshot: byRoom[p.RoomID],
		})
	}
	response.Success(c, gin.H{"rooms": placed})
}
