package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roomsense/occupancy-backend-go/internal/models"
)

// ReadingRepository reads the occupancy readings table the image-processing
// backend writes into. This service never writes to it.
type ReadingRepository struct {
	db          *sql.DB
	table       string
	orderColumn string
}

// NewReadingRepository creates a repository over the given table. orderColumn
// is the timestamp column the window query sorts on (the normalizer resolves
// per-row aliases; the ORDER BY needs one concrete name).
func NewReadingRepository(db *sql.DB, table, orderColumn string) *ReadingRepository {
	return &ReadingRepository{db: db, table: table, orderColumn: orderColumn}
}

// FetchRecent returns up to limit rows, most recent first. Rows come back as
// generic column-name maps: the backend has renamed columns between versions,
// and resolving them belongs to the normalizer, not the query.
//
// The fixed window is a heuristic: a room whose only reading has scrolled out
// of the newest N rows will be missing from the result.
func (r *ReadingRepository) FetchRecent(ctx context.Context, limit int) ([]models.RawReading, error) {
	query := fmt.Sprintf(`SELECT * FROM %q ORDER BY %q DESC LIMIT ?`, r.table, r.orderColumn)
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read reading columns: %w", err)
	}

	var out []models.RawReading
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan reading row: %w", err)
		}
		row := make(models.RawReading, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return out, nil
}
