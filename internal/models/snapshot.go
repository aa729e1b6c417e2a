package models

import (
	"encoding/json"
	"time"
)

// OccupancyTier is an ordered occupancy level. A deployment uses either the
// three-tier set {Empty, Moderate, Full} or the four-tier set
// {Empty, Light, Moderate, Busy}; the numeric order holds for both.
type OccupancyTier int

const (
	TierEmpty OccupancyTier = iota
	TierLight
	TierModerate
	TierBusy
	TierFull
)

var tierNames = map[OccupancyTier]string{
	TierEmpty:    "empty",
	TierLight:    "light",
	TierModerate: "moderate",
	TierBusy:     "busy",
	TierFull:     "full",
}

func (t OccupancyTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON renders the tier as its display name, which is what the
// dashboard keys its card colors on.
func (t OccupancyTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// RoomSnapshot is the presentation-ready state of one room for one refresh
// cycle. Snapshots are built fresh each cycle and never mutated afterwards;
// the next cycle replaces the whole set.
type RoomSnapshot struct {
	RoomID        string        `json:"roomId"`
	Count         int           `json:"count"`
	Tier          OccupancyTier `json:"tier"`
	ObservedAt    time.Time     `json:"observedAt"`
	IsStale       bool          `json:"isStale"`
	RelativeLabel string        `json:"relativeLabel"`
}

// Summary aggregates one cycle's snapshots for the dashboard header.
type Summary struct {
	TotalOccupancy int            `json:"totalOccupancy"`
	RoomCount      int            `json:"roomCount"`
	TierCounts     map[string]int `json:"tierCounts"`
}
