package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaRepository_Get_Existing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCallsQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"api_calls"}).AddRow(12))

	calls, err := NewQuotaRepository(db).Get(context.Background(), 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 12, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Get_SeedsMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCallsQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"api_calls"}))
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE user_id = user_id")).
		WithArgs(int64(5), 20).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(selectCallsQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"api_calls"}).AddRow(20))

	calls, err := NewQuotaRepository(db).Get(context.Background(), 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Get_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectCallsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"api_calls"}))
	mock.ExpectExec("INSERT INTO api_usage").
		WillReturnError(&mysql.MySQLError{Number: 1452})

	_, err = NewQuotaRepository(db).Get(context.Background(), 5, 20)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Decrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE api_calls = GREATEST(0, api_calls - 1)")).
		WithArgs(int64(5), 19).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(selectCallsQuery)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"api_calls"}).AddRow(0))
	mock.ExpectCommit()

	calls, err := NewQuotaRepository(db).Decrement(context.Background(), 5, 19)
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Decrement_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO api_usage").
		WillReturnError(&mysql.MySQLError{Number: 1452})
	mock.ExpectRollback()

	_, err = NewQuotaRepository(db).Decrement(context.Background(), 5, 19)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Decrement_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO api_usage").WillReturnError(boom)
	mock.ExpectRollback()

	_, err = NewQuotaRepository(db).Decrement(context.Background(), 5, 19)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaRepository_Initialize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO api_usage (user_id, api_calls) VALUES (?, ?)")).
		WithArgs(int64(8), 20).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewQuotaRepository(db).Initialize(context.Background(), 8, 20)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
