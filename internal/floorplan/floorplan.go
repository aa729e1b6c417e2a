package floorplan

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r2"
)

// Placement is one room's rectangle on the floor-plan image, in plan pixel
// coordinates.
type Placement struct {
	RoomID string
	Rect   r2.Rect
}

// Plan maps room ids to their placements, keeping the file's room order.
type Plan struct {
	placements map[string]Placement
	order      []string
}

type planFile struct {
	Rooms []struct {
		RoomID string  `json:"roomId"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"rooms"`
}

// Load reads a plan file. Rooms with a non-positive extent are rejected: a
// zero-area room can never be hit-tested and always means a bad export.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read floor plan: %w", err)
	}
	return Parse(data)
}

// Parse builds a Plan from raw plan-file JSON.
func Parse(data []byte) (*Plan, error) {
	var file planFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse floor plan: %w", err)
	}

	plan := &Plan{placements: make(map[string]Placement, len(file.Rooms))}
	for _, room := range file.Rooms {
		if room.RoomID == "" {
			return nil, fmt.Errorf("floor plan has a room without an id")
		}
		if room.Width <= 0 || room.Height <= 0 {
			return nil, fmt.Errorf("floor plan room %q has a non-positive extent", room.RoomID)
		}
		if _, exists := plan.placements[room.RoomID]; exists {
			return nil, fmt.Errorf("floor plan places room %q twice", room.RoomID)
		}
		rect := r2.RectFromPoints(
			r2.Point{X: room.X, Y: room.Y},
			r2.Point{X: room.X + room.Width, Y: room.Y + room.Height},
		)
		plan.placements[room.RoomID] = Placement{RoomID: room.RoomID, Rect: rect}
		plan.order = append(plan.order, room.RoomID)
	}
	return plan, nil
}

// Placement looks up one room's rectangle.
func (p *Plan) Placement(roomID string) (Placement, bool) {
	placement, ok := p.placements[roomID]
	return placement, ok
}

// RoomAt returns the room whose rectangle contains the given plan point.
// Overlapping rectangles resolve to the earliest room in file order.
func (p *Plan) RoomAt(x, y float64) (string, bool) {
	point := r2.Point{X: x, Y: y}
	for _, roomID := range p.order {
		if p.placements[roomID].Rect.ContainsPoint(point) {
			return roomID, true
		}
	}
	return "", false
}

// Rooms returns all placements in file order.
func (p *Plan) Rooms() []Placement {
	out := make([]Placement, 0, len(p.order))
	for _, roomID := range p.order {
		out = append(out, p.placements[roomID])
	}
	return out
}
