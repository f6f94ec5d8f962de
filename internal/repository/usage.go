package repository

import (
	"context"
	"database/sql"

	"github.com/promptgate/promptgate-go/internal/model"
)

// UsageRepository counts requests per endpoint and method in the resource table.
type UsageRepository struct {
	db *sql.DB
}

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// RecordHit adds one request to the (endpoint, method) counter, creating it
// at 1 on first sight. The single statement keeps concurrent hits from
// inserting duplicates or losing increments.
func (r *UsageRepository) RecordHit(ctx context.Context, endpoint, method string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO resource (endpoint, method, requests) VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE requests = requests + 1`,
		endpoint, method,
	)
	return err
}

// List returns every usage counter ordered by ID.
func (r *UsageRepository) List(ctx context.Context) ([]model.UsageRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, endpoint, method, requests FROM resource ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.UsageRecord
	for rows.Next() {
		var rec model.UsageRecord
		if err := rows.Scan(&rec.ID, &rec.Endpoint, &rec.Method, &rec.Requests); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
