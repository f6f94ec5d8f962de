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

	"github.com/promptgate/promptgate-go/internal/model"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("ada", "ada@example.com", "hash", false).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO api_usage").
		WithArgs(int64(7), 20).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &model.User{Username: "ada", Email: "ada@example.com", PasswordHash: "hash"}
	err = NewUserRepository(db).Create(context.Background(), user, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'uq_users_email'"})
	mock.ExpectRollback()

	user := &model.User{Username: "ada", Email: "ada@example.com", PasswordHash: "hash"}
	err = NewUserRepository(db).Create(context.Background(), user, 20)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Zero(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_QuotaFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO api_usage").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	user := &model.User{Username: "ada", Email: "ada@example.com", PasswordHash: "hash"}
	err = NewUserRepository(db).Create(context.Background(), user, 20)
	assert.Error(t, err)
	assert.Zero(t, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "is_admin"}).
		AddRow(int64(3), "ada", "ada@example.com", "hash", true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	user, err := NewUserRepository(db).GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.True(t, user.IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "is_admin"}))

	_, err = NewUserRepository(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "is_admin"}).
		AddRow(int64(1), "root", "root@example.com", "h1", true).
		AddRow(int64(2), "ada", "ada@example.com", "h2", false)
	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY id").WillReturnRows(rows)

	users, err := NewUserRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "root", users[0].Username)
	assert.False(t, users[1].IsAdmin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET username = ? WHERE id = ?")).
		WithArgs("grace", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewUserRepository(db).UpdateUsername(context.Background(), 3, "grace")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = ?")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	assert.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateEntryError(t *testing.T) {
	assert.False(t, isDuplicateEntryError(nil))
	assert.False(t, isDuplicateEntryError(ErrUserNotFound))
	assert.True(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1452}))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.False(t, isForeignKeyError(nil))
	assert.True(t, isForeignKeyError(&mysql.MySQLError{Number: 1452}))
}
