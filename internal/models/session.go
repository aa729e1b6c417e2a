package models

import "time"

// FailureReason records why a refresh cycle failed. Only the fetch itself can
// produce one; row-level problems are recovered inside the pipeline.
type FailureReason struct {
	CycleID    string    `json:"cycleId"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// RefreshResult is everything one successful refresh cycle produced.
// An empty Rooms list is a valid result, distinct from a failure.
type RefreshResult struct {
	CycleID      string         `json:"cycleId"`
	Rooms        []RoomSnapshot `json:"rooms"`
	Summary      Summary        `json:"summary"`
	RejectedRows int            `json:"rejectedRows"`
	RefreshedAt  time.Time      `json:"refreshedAt"`
}
