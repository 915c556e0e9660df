package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	sessionTTL       = 30 * time.Minute
)

// ErrNoSession is returned when a session ID is unknown or expired.
var ErrNoSession = errors.New("no session")

// Store manages sessions in Redis. Each key maps a random session ID to a user ID.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is the inactivity lifetime of a session.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session bound to userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+id, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set: %w", err)
	}
	return id, nil
}

// GetUserID resolves a session and pushes its expiry another TTL forward.
func (s *Store) GetUserID(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, ErrNoSession
	}
	return parseUserID(id, s.rdb.GetEx(ctx, sessionKeyPrefix+id, s.ttl))
}

// Peek resolves a session without touching its expiry.
func (s *Store) Peek(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, ErrNoSession
	}
	return parseUserID(id, s.rdb.Get(ctx, sessionKeyPrefix+id))
}

func parseUserID(id string, cmd *redis.StringCmd) (int64, error) {
	v, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("redis %s: %w", cmd.Name(), err)
	}
	userID, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %q: %w", id, err)
	}
	return userID, nil
}

// Delete removes a session by ID. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
