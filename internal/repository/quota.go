package repository

import (
	"context"
	"database/sql"
	"errors"
)

// QuotaRepository persists the remaining API calls per user in api_usage.
type QuotaRepository struct {
	db *sql.DB
}

// NewQuotaRepository creates a new QuotaRepository.
func NewQuotaRepository(db *sql.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

const (
	selectCallsQuery = `SELECT api_calls FROM api_usage WHERE user_id = ?`

	// seedIfAbsentQuery leaves an existing row untouched.
	seedIfAbsentQuery = `INSERT INTO api_usage (user_id, api_calls) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE user_id = user_id`

	// decrementQuery seeds a missing row or lowers an existing one, floored at zero.
	decrementQuery = `INSERT INTO api_usage (user_id, api_calls) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE api_calls = GREATEST(0, api_calls - 1)`
)

// Get returns the remaining calls of userID, creating the row with seed when absent.
func (r *QuotaRepository) Get(ctx context.Context, userID int64, seed int) (int, error) {
	var calls int
	err := r.db.QueryRowContext(ctx, selectCallsQuery, userID).Scan(&calls)
	if err == nil {
		return calls, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if _, err := r.db.ExecContext(ctx, seedIfAbsentQuery, userID, seed); err != nil {
		if isForeignKeyError(err) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	// A concurrent first read may have won the insert; report whatever is stored.
	if err := r.db.QueryRowContext(ctx, selectCallsQuery, userID).Scan(&calls); err != nil {
		return 0, err
	}
	return calls, nil
}

// Decrement consumes one call of userID and returns the remaining count.
// A missing row is created with seed.
func (r *QuotaRepository) Decrement(ctx context.Context, userID int64, seed int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, decrementQuery, userID, seed); err != nil {
		if isForeignKeyError(err) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	var calls int
	if err := tx.QueryRowContext(ctx, selectCallsQuery, userID).Scan(&calls); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return calls, nil
}

// Initialize stores a fresh quota row for a newly registered user.
func (r *QuotaRepository) Initialize(ctx context.Context, userID int64, count int) error {
	err := initializeQuota(ctx, r.db, userID, count)
	if isForeignKeyError(err) {
		return ErrUserNotFound
	}
	return err
}

func initializeQuota(ctx context.Context, db execer, userID int64, count int) error {
	_, err := db.ExecContext(ctx, `INSERT INTO api_usage (user_id, api_calls) VALUES (?, ?)`, userID, count)
	return err
}
