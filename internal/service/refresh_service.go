package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roomsense/occupancy-backend-go/internal/models"
	"github.com/roomsense/occupancy-backend-go/internal/occupancy"
)

// ReadingSource is the read-only view of the store the orchestrator needs.
type ReadingSource interface {
	FetchRecent(ctx context.Context, limit int) ([]models.RawReading, error)
}

// ErrRefreshInFlight is returned when Refresh is called while a cycle is
// already running. The caller gets no new cycle; the running one's result
// lands in the session as usual.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// RefreshService runs fetch-normalize-reduce-classify cycles and owns the
// session state between them. At most one cycle runs at a time.
type RefreshService struct {
	source     ReadingSource
	normalizer *occupancy.Normalizer
	classifier *occupancy.Classifier
	freshness  occupancy.Freshness
	fetchLimit int
	now        func() time.Time

	mu          sync.Mutex
	inFlight    bool
	lastResult  *models.RefreshResult
	lastFailure *models.FailureReason
}

// NewRefreshService wires the pipeline. All collaborators come in explicitly;
// there is no ambient configuration.
func NewRefreshService(source ReadingSource, normalizer *occupancy.Normalizer, classifier *occupancy.Classifier, freshness occupancy.Freshness, fetchLimit int) *RefreshService {
	return &RefreshService{
		source:     source,
		normalizer: normalizer,
		classifier: classifier,
		freshness:  freshness,
		fetchLimit: fetchLimit,
		now:        time.Now,
	}
}

// Refresh runs one cycle. A call arriving while another cycle is in flight
// returns ErrRefreshInFlight without touching the store; duplicate triggers
// are dropped, not queued.
//
// Zero surviving rooms is a success with an empty list. Only a failed fetch
// is a failure, and it leaves the previous result in place for fallback
// display.
func (s *RefreshService) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrRefreshInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	cycleID := uuid.NewString()

	raw, err := s.source.FetchRecent(ctx, s.fetchLimit)
	if err != nil {
		failure := &models.FailureReason{
			CycleID:    cycleID,
			Message:    err.Error(),
			OccurredAt: s.now(),
		}
		s.mu.Lock()
		s.lastFailure = failure
		s.mu.Unlock()
		log.Printf("refresh %s: fetch failed: %v", cycleID, err)
		return nil, fmt.Errorf("failed to fetch readings: %w", err)
	}

	records := make([]models.ReadingRecord, 0, len(raw))
	rejected := 0
	for _, row := range raw {
		rec, err := s.normalizer.Normalize(row)
		if err != nil {
			rejected++
			continue
		}
		records = append(records, rec)
	}

	now := s.now()
	latest := occupancy.Reduce(records)
	snapshots := make([]models.RoomSnapshot, 0, len(latest))
	for _, rec := range latest {
		info := s.freshness.Format(rec.ObservedAt, now)
		snapshots = append(snapshots, models.RoomSnapshot{
			RoomID:        rec.RoomID,
			Count:         rec.Count,
			Tier:          s.classifier.Classify(rec.RoomID, rec.Count),
			ObservedAt:    rec.ObservedAt,
			IsStale:       info.IsStale,
			RelativeLabel: info.RelativeLabel,
		})
	}

	result := &models.RefreshResult{
		CycleID:      cycleID,
		Rooms:        snapshots,
		Summary:      summarize(snapshots),
		RejectedRows: rejected,
		RefreshedAt:  now,
	}

	s.mu.Lock()
	s.lastResult = result
	s.lastFailure = nil
	s.mu.Unlock()

	if rejected > 0 {
		log.Printf("refresh %s: dropped %d unusable rows of %d fetched", cycleID, rejected, len(raw))
	}
	return result, nil
}

// Session reports the orchestrator's current state: the last successful
// result (nil before the first success), the last failure (nil after any
// success), and whether a cycle is running. Callers must treat the result as
// read-only.
func (s *RefreshService) Session() (*models.RefreshResult, *models.FailureReason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult, s.lastFailure, s.inFlight
}

func summarize(rooms []models.RoomSnapshot) models.Summary {
	summary := models.Summary{
		RoomCount:  len(rooms),
		TierCounts: make(map[string]int),
	}
	for _, room := range rooms {
		summary.TotalOccupancy += room.Count
		summary.TierCounts[room.Tier.String()]++
	}
	return summary
}
