package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置
// Immutable after Load; everything downstream receives it (or pieces of it)
// at construction time.
type Config struct {
	Port   string
	DBPath string

	// Readings table shape
	ReadingsTable    string
	TimestampColumn  string // concrete column the window query sorts on
	RoomAliases      []string
	CountAliases     []string
	TimestampAliases []string

	// Classification profile, fixed per deployment
	TierProfile       string // "three" or "four"
	LowBound          int    // three-tier: Moderate/Full boundary
	LightBound        int    // four-tier: Light/Moderate boundary
	ModerateBound     int    // four-tier: Moderate/Busy boundary
	CapacityFractions []float64
	CapacityMapPath   string
	Capacities        map[string]int

	// Refresh behaviour
	StaleAfter   time.Duration
	FetchLimit   int
	PollInterval time.Duration

	// Trigger-layer guard for POST /refresh (the orchestrator's in-flight
	// check is the authoritative one)
	RefreshPerMinute int

	// Read-only public credential; empty disables the check
	ReadKeySecret string

	FloorplanPath string
}

// Load 加载配置
func Load() *Config {
	cfg := &Config{
		Port:             envString("PORT", ":8080"),
		DBPath:           envString("DB_PATH", "./data/readings.db"),
		ReadingsTable:    envString("READINGS_TABLE", "readings"),
		TimestampColumn:  envString("TIMESTAMP_COLUMN", "created_at"),
		RoomAliases:      envList("ROOM_ALIASES", []string{"room_id", "room", "room_name"}),
		CountAliases:     envList("COUNT_ALIASES", []string{"people_count", "person_count"}),
		TimestampAliases: envList("TIMESTAMP_ALIASES", []string{"created_at", "observed_at", "timestamp"}),
		TierProfile:      envString("TIER_PROFILE", "three"),
		LowBound:         envInt("LOW_BOUND", 5),
		LightBound:       envInt("LIGHT_BOUND", 2),
		ModerateBound:    envInt("MODERATE_BOUND", 6),
		CapacityMapPath:  envString("CAPACITY_MAP", ""),
		StaleAfter:       envDuration("STALE_AFTER", 5*time.Minute),
		FetchLimit:       envInt("FETCH_LIMIT", 500),
		PollInterval:     envDuration("POLL_INTERVAL", 30*time.Second),
		RefreshPerMinute: envInt("REFRESH_PER_MINUTE", 12),
		ReadKeySecret:    envString("READ_KEY_SECRET", ""),
		FloorplanPath:    envString("FLOORPLAN_PATH", ""),
	}

	if raw := os.Getenv("CAPACITY_FRACTIONS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				continue
			}
			cfg.CapacityFractions = append(cfg.CapacityFractions, f)
		}
	}

	if cfg.CapacityMapPath != "" {
		capacities, err := loadCapacities(cfg.CapacityMapPath)
		if err != nil {
			// A broken map silently degrading every room to absolute
			// boundaries would be invisible; say so.
			log.Printf("Failed to load capacity map %s: %v", cfg.CapacityMapPath, err)
		} else {
			cfg.Capacities = capacities
		}
	}

	return cfg
}

// loadCapacities reads the per-room capacity map: {"room-id": seats, ...}.
func loadCapacities(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capacity map: %w", err)
	}
	capacities := make(map[string]int)
	if err := json.Unmarshal(data, &capacities); err != nil {
		return nil, fmt.Errorf("failed to parse capacity map: %w", err)
	}
	return capacities, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
