package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dom "taskmanager/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db DBTX
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db DBTX) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByEmail returns the user with the given (already case-folded) email.
// The lower() form matches the users_email_lower_idx index.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE lower(email) = $1`
	return r.getOne(ctx, query, email)
}

func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	u := dom.User{Username: username, Email: email, PasswordHash: passwordHash}
	if err := r.db.QueryRowContext(ctx, query, username, email, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		return dom.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PGUserRepo) getOne(ctx context.Context, query string, arg any) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}
