package occupancy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roomsense/occupancy-backend-go/internal/models"
)

// Aliases lists the accepted column names per logical field. The backend has
// shipped more than one spelling for the count column, so resolution lives
// here as a single declarative list instead of ad-hoc checks in the read path.
type Aliases struct {
	Room      []string
	Count     []string
	Timestamp []string
}

// DefaultAliases covers every spelling the image-processing backend has used
// so far.
func DefaultAliases() Aliases {
	return Aliases{
		Room:      []string{"room_id", "room", "room_name"},
		Count:     []string{"people_count", "person_count"},
		Timestamp: []string{"created_at", "observed_at", "timestamp"},
	}
}

// timestampLayouts: RFC 3339 variants cover the hosted backend's ISO strings,
// the rest are common sqlite datetime renderings.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Normalizer maps raw rows to canonical ReadingRecords. Pure: no I/O, no
// state beyond the configured alias lists.
type Normalizer struct {
	aliases Aliases
}

// NewNormalizer creates a normalizer for the given alias lists. Empty lists
// fall back to the defaults.
func NewNormalizer(aliases Aliases) *Normalizer {
	def := DefaultAliases()
	if len(aliases.Room) == 0 {
		aliases.Room = def.Room
	}
	if len(aliases.Count) == 0 {
		aliases.Count = def.Count
	}
	if len(aliases.Timestamp) == 0 {
		aliases.Timestamp = def.Timestamp
	}
	return &Normalizer{aliases: aliases}
}

// Normalize validates one raw row. Failures come back wrapped around
// ErrSchema or ErrInvalidValue; the caller drops the row and moves on.
func (n *Normalizer) Normalize(raw models.RawReading) (models.ReadingRecord, error) {
	var rec models.ReadingRecord

	roomVal, ok := firstPresent(raw, n.aliases.Room)
	if !ok {
		return rec, fmt.Errorf("no room column found: %w", ErrSchema)
	}
	roomID, ok := asString(roomVal)
	roomID = strings.TrimSpace(roomID)
	if !ok || roomID == "" {
		return rec, fmt.Errorf("empty room identifier: %w", ErrSchema)
	}

	countVal, ok := firstPresent(raw, n.aliases.Count)
	if !ok {
		return rec, fmt.Errorf("no count column found: %w", ErrSchema)
	}
	count, err := parseCount(countVal)
	if err != nil {
		return rec, err
	}

	tsVal, ok := firstPresent(raw, n.aliases.Timestamp)
	if !ok {
		return rec, fmt.Errorf("no timestamp column found: %w", ErrSchema)
	}
	observedAt, err := parseInstant(tsVal)
	if err != nil {
		return rec, err
	}

	rec.RoomID = roomID
	rec.Count = count
	rec.ObservedAt = observedAt
	return rec, nil
}

// firstPresent returns the value of the first alias present in the row.
func firstPresent(raw models.RawReading, names []string) (any, bool) {
	for _, name := range names {
		if v, ok := raw[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

// parseCount accepts the integer shapes sqlite drivers hand back (int64,
// float64, text). Negative or fractional values are invalid, not clamped.
func parseCount(v any) (int, error) {
	var count int64
	switch c := v.(type) {
	case int64:
		count = c
	case int:
		count = int64(c)
	case float64:
		if c != math.Trunc(c) {
			return 0, fmt.Errorf("count %v is not an integer: %w", c, ErrInvalidValue)
		}
		count = int64(c)
	case string, []byte:
		s, _ := asString(v)
		parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("count %q is not numeric: %w", s, ErrInvalidValue)
		}
		count = parsed
	default:
		return 0, fmt.Errorf("count has unsupported type %T: %w", v, ErrInvalidValue)
	}
	if count < 0 {
		return 0, fmt.Errorf("count %d is negative: %w", count, ErrInvalidValue)
	}
	return int(count), nil
}

// parseInstant accepts time.Time from drivers that decode timestamps, ISO/
// sqlite text renderings, and unix epoch seconds.
func parseInstant(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, fmt.Errorf("zero timestamp: %w", ErrSchema)
		}
		return t, nil
	case string, []byte:
		s, _ := asString(v)
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparsable timestamp %q: %w", s, ErrSchema)
	case int64:
		if t <= 0 {
			return time.Time{}, fmt.Errorf("non-positive epoch timestamp %d: %w", t, ErrSchema)
		}
		return time.Unix(t, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("timestamp has unsupported type %T: %w", v, ErrSchema)
}
