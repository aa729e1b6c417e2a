package occupancy

import "github.com/roomsense/occupancy-backend-go/internal/models"

// Reduce collapses a most-recent-first sequence of readings to one reading
// per room. The fetch query orders by timestamp descending, so keeping the
// first record seen per room keeps the latest; records sharing a room and an
// identical timestamp resolve to the earlier arrival. The result preserves
// first-seen order of distinct rooms.
//
// Empty input yields an empty (non-nil) slice: no data is a valid state, not
// an error.
func Reduce(records []models.ReadingRecord) []models.ReadingRecord {
	seen := make(map[string]struct{}, len(records))
	latest := make([]models.ReadingRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.RoomID]; ok {
			continue
		}
		seen[rec.RoomID] = struct{}{}
		latest = append(latest, rec)
	}
	return latest
}
