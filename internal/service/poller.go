package service

import (
	"context"
	"errors"
	"log"
	"time"
)

// Poller triggers refresh cycles on a fixed interval until its context is
// cancelled. A tick landing while a user-triggered cycle is still running is
// dropped by the service's in-flight guard.
type Poller struct {
	refresh  *RefreshService
	interval time.Duration
}

// NewPoller creates a poller. An interval of zero or less disables it.
func NewPoller(refresh *RefreshService, interval time.Duration) *Poller {
	return &Poller{refresh: refresh, interval: interval}
}

// Run blocks until ctx is cancelled. It refreshes once up front so the
// dashboard has data before the first tick.
func (p *Poller) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if _, err := p.refresh.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInFlight) {
		log.Printf("scheduled refresh failed: %v", err)
	}
}
