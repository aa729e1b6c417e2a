package service

import (
	"context"
	"testing"
	"time"
)

func TestPollerRefreshesUntilCancelled(t *testing.T) {
	source := &fakeSource{}
	svc := newTestService(source)
	poller := NewPoller(svc, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for source.callCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("poller only refreshed %d times", source.callCount())
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPollerDisabledByZeroInterval(t *testing.T) {
	source := &fakeSource{}
	poller := NewPoller(newTestService(source), 0)

	done := make(chan struct{})
	go func() {
		poller.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled poller should return immediately")
	}
	if source.callCount() != 0 {
		t.Fatalf("disabled poller refreshed %d times", source.callCount())
	}
}
