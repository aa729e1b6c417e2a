package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/roomsense/occupancy-backend-go/internal/models"
	"github.com/roomsense/occupancy-backend-go/internal/occupancy"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   int
	rows    []models.RawReading
	err     error
	release chan struct{} // when set, FetchRecent blocks until closed
}

func (f *fakeSource) FetchRecent(ctx context.Context, limit int) ([]models.RawReading, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(source *fakeSource) *RefreshService {
	svc := NewRefreshService(
		source,
		occupancy.NewNormalizer(occupancy.Aliases{}),
		occupancy.NewClassifier(occupancy.ThreeTierProfile(5), nil),
		occupancy.Freshness{StaleAfter: 5 * time.Minute},
		500,
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 24, 10, 0, 30, 0, time.UTC) }
	return svc
}

func row(room string, count any, at string) models.RawReading {
	return models.RawReading{"room_id": room, "people_count": count, "created_at": at}
}

func TestRefreshPipeline(t *testing.T) {
	source := &fakeSource{rows: []models.RawReading{
		row("A", int64(3), "2026-08-24T10:00:00Z"),
		row("A", int64(3), "2026-08-24T09:59:00Z"),
		row("B", int64(0), "2026-08-24T10:00:00Z"),
	}}
	svc := newTestService(source)

	result, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(result.Rooms) != 2 {
		t.Fatalf("rooms = %d, want 2", len(result.Rooms))
	}
	a, b := result.Rooms[0], result.Rooms[1]
	if a.RoomID != "A" || a.Count != 3 || a.Tier != models.TierModerate {
		t.Errorf("room A = %+v, want count 3 moderate", a)
	}
	if b.RoomID != "B" || b.Count != 0 || b.Tier != models.TierEmpty {
		t.Errorf("room B = %+v, want count 0 empty", b)
	}
	if a.RelativeLabel != "30s ago" || a.IsStale {
		t.Errorf("room A freshness = %q stale=%v, want 30s ago fresh", a.RelativeLabel, a.IsStale)
	}
	if result.Summary.TotalOccupancy != 3 || result.Summary.TierCounts["empty"] != 1 {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestRefreshDeterministic(t *testing.T) {
	source := &fakeSource{rows: []models.RawReading{
		row("B", int64(7), "2026-08-24T10:00:10Z"),
		row("A", int64(2), "2026-08-24T10:00:00Z"),
		row("B", int64(1), "2026-08-24T09:55:00Z"),
	}}
	svc := newTestService(source)

	first, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	second, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !reflect.DeepEqual(first.Rooms, second.Rooms) {
		t.Fatalf("same input produced different snapshots:\n%+v\n%+v", first.Rooms, second.Rooms)
	}
}

func TestRefreshDropsBadRowsNotCycle(t *testing.T) {
	source := &fakeSource{rows: []models.RawReading{
		row("A", int64(-1), "2026-08-24T10:00:00Z"), // only reading for A: room vanishes
		row("B", "not-a-number", "2026-08-24T10:00:00Z"),
		row("C", int64(2), "2026-08-24T10:00:00Z"),
	}}
	svc := newTestService(source)

	result, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.RejectedRows != 2 {
		t.Errorf("rejectedRows = %d, want 2", result.RejectedRows)
	}
	if len(result.Rooms) != 1 || result.Rooms[0].RoomID != "C" {
		t.Fatalf("rooms = %+v, want only C (dropped rooms must not appear as 0)", result.Rooms)
	}
}

func TestRefreshEmptyWindowIsSuccess(t *testing.T) {
	svc := newTestService(&fakeSource{})
	result, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("empty window must not fail: %v", err)
	}
	if result.Rooms == nil || len(result.Rooms) != 0 {
		t.Fatalf("rooms = %#v, want empty list", result.Rooms)
	}
	if _, failure, _ := svc.Session(); failure != nil {
		t.Fatalf("empty result recorded a failure: %+v", failure)
	}
}

func TestRefreshFetchFailureKeepsPreviousResult(t *testing.T) {
	source := &fakeSource{rows: []models.RawReading{row("A", int64(1), "2026-08-24T10:00:00Z")}}
	svc := newTestService(source)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	source.err = errors.New("connection reset")
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected a fetch failure")
	}

	result, failure, inFlight := svc.Session()
	if inFlight {
		t.Error("service stuck in flight after failure")
	}
	if failure == nil || failure.Message == "" {
		t.Fatalf("failure = %+v, want recorded reason", failure)
	}
	if result == nil || len(result.Rooms) != 1 {
		t.Fatalf("previous result lost after failure: %+v", result)
	}

	// A later success clears the failure.
	source.err = nil
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("recovery refresh: %v", err)
	}
	if _, failure, _ := svc.Session(); failure != nil {
		t.Fatalf("failure not cleared by success: %+v", failure)
	}
}

func TestRefreshAtMostOneInFlight(t *testing.T) {
	release := make(chan struct{})
	source := &fakeSource{release: release}
	svc := newTestService(source)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	// Wait until the first cycle is inside the fetch.
	deadline := time.After(2 * time.Second)
	for source.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first refresh never reached the source")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := svc.Refresh(context.Background()); !errors.Is(err, ErrRefreshInFlight) {
		t.Fatalf("second refresh err = %v, want ErrRefreshInFlight", err)
	}
	if _, _, inFlight := svc.Session(); !inFlight {
		t.Error("session should report in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if got := source.callCount(); got != 1 {
		t.Fatalf("source calls = %d, want exactly 1", got)
	}

	// Guard released: the next trigger starts a fresh cycle.
	source.release = nil
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("follow-up refresh: %v", err)
	}
}
