package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// MySQL server error numbers the repositories classify.
const (
	errDuplicateEntry      = 1062
	errForeignKeyViolation = 1452
)

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS api_usage (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		api_calls INT NOT NULL DEFAULT 20,
		UNIQUE KEY uq_api_usage_user (user_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS resource (
		id INT AUTO_INCREMENT PRIMARY KEY,
		endpoint VARCHAR(255) NOT NULL,
		method VARCHAR(16) NOT NULL,
		requests BIGINT NOT NULL DEFAULT 1,
		UNIQUE KEY uq_resource_endpoint_method (endpoint, method)
	)`,
}

// Migrate creates the users, api_usage and resource tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	slog.Debug("schema ready", "tables", len(schema))
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func mysqlErrorNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	return mysqlErrorNumber(err) == errDuplicateEntry
}

// isForeignKeyError checks if a MySQL error is a missing parent row error (code 1452).
func isForeignKeyError(err error) bool {
	return mysqlErrorNumber(err) == errForeignKeyViolation
}
