package domain

import (
	"context"
	"time"
)

// User represents a registered account.
type User struct {
	ID                 string
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	PhoneNumber        string
	PasswordHash       string
	EmailConfirmed     bool
	SecurityStamp      string // Regenerated whenever credentials change
	LockoutEnabled     bool
	AccessFailedCount  int
	LockoutEnd         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsLockedOut reports whether the account is locked at the given instant.
func (u *User) IsLockedOut(now time.Time) bool {
	if u.LockoutEnd == nil {
		return false
	}
	return now.Before(*u.LockoutEnd)
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*User, error)
	GetByNormalizedUserName(ctx context.Context, normalizedUserName string) (*User, error)
	// RecordAccessFailure increments the failed-attempt counter in a single
	// transaction. When the counter reaches maxAttempts the account is locked
	// until lockoutEnd and the counter starts over. It reports whether this
	// call locked the account.
	RecordAccessFailure(ctx context.Context, id string, maxAttempts int, lockoutEnd time.Time) (bool, error)
	ResetAccessFailures(ctx context.Context, id string) error
}
