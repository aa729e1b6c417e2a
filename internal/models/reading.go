package models

import "time"

// RawReading is one row of the readings table exactly as fetched, before any
// validation. The image-processing backend has renamed columns between
// versions, so the row stays a generic map until alias resolution.
type RawReading map[string]any

// ReadingRecord is the canonical form of one occupancy reading.
// Count is never negative: rows that fail that check are dropped upstream.
type ReadingRecord struct {
	RoomID     string    `json:"roomId"`
	Count      int       `json:"count"`
	ObservedAt time.Time `json:"observedAt"`
}
