package service

import (
	"context"
	"errors"
	"strings"

	"taskmanager/internal/auth"
	dom "taskmanager/internal/domain"
	"taskmanager/internal/repo"
	"taskmanager/internal/utils"
)

var (
	ErrInvalidInput       = errors.New("username, email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrUserNotFound       = errors.New("user not found")
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

// Constraint names from migrations/00001_init.sql.
const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_lower_idx"
)

// UserService handles registration and credential checks.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// NormalizeEmail case-folds and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a bcrypt-hashed password. No session is started.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrInvalidInput
	}
	if len(password) > maxPasswordBytes {
		return dom.User{}, ErrPasswordTooLong
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dom.User{}, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, hash)
	if err != nil {
		// A concurrent registration can still win the race; the unique indexes decide.
		switch utils.UniqueViolationConstraint(err) {
		case "":
			return dom.User{}, err
		case constraintUsername:
			return dom.User{}, ErrUsernameTaken
		default:
			return dom.User{}, ErrEmailTaken
		}
	}
	return u, nil
}

// Authenticate checks email and password; returns the user if valid.
// Unknown email and wrong password yield the same ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (dom.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.EqualizeTiming(password)
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user or ErrUserNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}
