package domain

import "time"

// User is the domain entity for a user account.
// Email is stored case-folded.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
