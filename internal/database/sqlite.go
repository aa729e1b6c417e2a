package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Config holds readings-store configuration.
type Config struct {
	Path string
}

// Open opens the readings store read-only and returns the handle to the
// caller; there is no package-level singleton. The image-processing backend
// owns the write side of this file.
func Open(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open readings store: %w", err)
	}

	// Small pool; this service only runs one window query at a time.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	// WAL lets reads proceed while the writer commits.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// This service never writes; fail loudly if anything tries.
	if _, err := db.Exec("PRAGMA query_only=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set query_only: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach readings store: %w", err)
	}

	log.Printf("Readings store opened read-only: %s", cfg.Path)
	return db, nil
}
