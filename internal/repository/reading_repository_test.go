package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	// One connection, or each pool conn would see its own empty :memory: db.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE readings (
		id INTEGER PRIMARY KEY,
		room_id TEXT,
		person_count INTEGER,
		created_at TEXT
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func seed(t *testing.T, db *sql.DB, room string, count int, at string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO readings (room_id, person_count, created_at) VALUES (?, ?, ?)`, room, count, at); err != nil {
		t.Fatalf("seed row: %v", err)
	}
}

func TestFetchRecentOrderAndLimit(t *testing.T) {
	db := openTestStore(t)
	seed(t, db, "lobby", 2, "2026-08-24T09:58:00Z")
	seed(t, db, "lobby", 5, "2026-08-24T10:00:00Z")
	seed(t, db, "atrium", 1, "2026-08-24T09:59:00Z")

	repo := NewReadingRepository(db, "readings", "created_at")
	rows, err := repo.FetchRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2 (limit)", len(rows))
	}

	first, _ := rows[0]["room_id"].(string)
	second, _ := rows[1]["room_id"].(string)
	if first != "lobby" || second != "atrium" {
		t.Fatalf("order = %s, %s; want lobby, atrium (newest first)", first, second)
	}
	if _, ok := rows[0]["person_count"]; !ok {
		t.Fatal("raw row should expose the store's own column names")
	}
}

func TestFetchRecentEmptyTable(t *testing.T) {
	db := openTestStore(t)
	repo := NewReadingRepository(db, "readings", "created_at")
	rows, err := repo.FetchRecent(context.Background(), 500)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("len = %d, want 0", len(rows))
	}
}

func TestFetchRecentMissingTable(t *testing.T) {
	db := openTestStore(t)
	repo := NewReadingRepository(db, "nope", "created_at")
	if _, err := repo.FetchRecent(context.Background(), 10); err == nil {
		t.Fatal("expected an error for a missing table")
	}
}
