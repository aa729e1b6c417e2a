package occupancy

import (
	"fmt"
	"time"
)

// DefaultStaleAfter is how old a reading can be before the dashboard flags
// the room as stale.
const DefaultStaleAfter = 5 * time.Minute

// Freshness derives the human-relative age label and staleness flag for a
// reading.
type Freshness struct {
	StaleAfter time.Duration
}

// FreshnessInfo is the derived display state for one reading's age.
type FreshnessInfo struct {
	RelativeLabel string
	IsStale       bool
}

// Format never fails: a zero timestamp renders as "Unknown" and counts as
// stale, and a timestamp ahead of now reads as "0s ago" rather than a
// negative age (the writer's clock can run ahead of ours).
func (f Freshness) Format(observedAt, now time.Time) FreshnessInfo {
	if observedAt.IsZero() {
		return FreshnessInfo{RelativeLabel: "Unknown", IsStale: true}
	}
	threshold := f.StaleAfter
	if threshold <= 0 {
		threshold = DefaultStaleAfter
	}
	age := now.Sub(observedAt)
	if age < 0 {
		age = 0
	}
	info := FreshnessInfo{IsStale: age > threshold}
	switch {
	case age < time.Minute:
		info.RelativeLabel = fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		info.RelativeLabel = fmt.Sprintf("%dm ago", int(age.Minutes()))
	default:
		info.RelativeLabel = observedAt.Local().Format("15:04")
	}
	return info
}
