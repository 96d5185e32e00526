package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/identity-app/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// SignInManager verifies credentials, tracks failed attempts, and issues
// session tokens.
type SignInManager struct {
	users     domain.UserRepository
	opts      IdentityOptions
	jwtSecret []byte
	now       func() time.Time
}

// NewSignInManager creates a new SignInManager.
func NewSignInManager(users domain.UserRepository, opts IdentityOptions, jwtSecret string) *SignInManager {
	return &SignInManager{
		users:     users,
		opts:      opts,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (m *SignInManager) WithClock(now func() time.Time) *SignInManager {
	m.now = now
	return m
}

// PasswordSignIn checks password for user. A locked account is rejected
// without looking at the password. With lockoutOnFailure set, a wrong
// password counts toward the lockout threshold; the attempt that reaches the
// threshold is itself reported as locked out.
func (m *SignInManager) PasswordSignIn(ctx context.Context, user *domain.User, password string, lockoutOnFailure bool) (domain.SignInResult, error) {
	now := m.now()
	if user.IsLockedOut(now) {
		return domain.SignInLockedOut, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == nil {
		if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
			if err := m.users.ResetAccessFailures(ctx, user.ID); err != nil {
				return domain.SignInFailed, fmt.Errorf("reset access failures: %w", err)
			}
			user.AccessFailedCount = 0
			user.LockoutEnd = nil
		}
		if m.opts.SignIn.RequireConfirmedAccount && !user.EmailConfirmed {
			return domain.SignInNotAllowed, nil
		}
		return domain.SignInSucceeded, nil
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.SignInFailed, fmt.Errorf("compare password: %w", err)
	}

	lockout := m.opts.Lockout
	if !lockoutOnFailure || !user.LockoutEnabled || lockout.MaxFailedAccessAttempts <= 0 {
		return domain.SignInFailed, nil
	}

	end := now.Add(lockout.DefaultLockoutTimeSpan).UTC()
	locked, err := m.users.RecordAccessFailure(ctx, user.ID, lockout.MaxFailedAccessAttempts, end)
	if err != nil {
		return domain.SignInFailed, fmt.Errorf("record access failure: %w", err)
	}
	if locked {
		user.LockoutEnd = &end
		user.AccessFailedCount = 0
		slog.Warn("account locked out", "user_id", user.ID, "until", end)
		return domain.SignInLockedOut, nil
	}
	user.AccessFailedCount++
	return domain.SignInFailed, nil
}
