package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var userCols = []string{"id", "username", "email", "password_hash", "created_at"}

func TestUserCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGUserRepo(db)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users \(username, email, password_hash\)`).
		WithArgs("al", "al@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), now))

	u, err := repo.Create(context.Background(), "al", "al@x.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "al", u.Username)
	assert.Equal(t, "al@x.com", u.Email)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserCreate_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGUserRepo(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("al", "al@x.com", "hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "al", "al@x.com", "hash")
	assert.ErrorContains(t, err, "db error: db down")
}

func TestUserGetByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGUserRepo(db)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = \$1`).
		WithArgs("al@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "al", "al@x.com", "hash", time.Now()))

	u, err := repo.GetByEmail(context.Background(), "al@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGUserRepo(db)

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = \$1`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserGetByID_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGUserRepo(db)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("conn reset"))

	_, err := repo.GetByID(context.Background(), 5)
	assert.ErrorContains(t, err, "db error: conn reset")
	assert.NotErrorIs(t, err, ErrNotFound)
}
