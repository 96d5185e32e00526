package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/identity-app/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, user_name, normalized_user_name, email, normalized_email, phone_number,
	password_hash, email_confirmed, security_stamp, lockout_enabled, access_failed_count,
	lockout_end, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.UserName, user.NormalizedUserName, user.Email, user.NormalizedEmail, user.PhoneNumber,
		user.PasswordHash, user.EmailConfirmed, user.SecurityStamp, user.LockoutEnabled, user.AccessFailedCount,
		nullTime(user.LockoutEnd), now, now,
	)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error) {
	return r.getOne(ctx, "normalized_email", normalizedEmail)
}

func (r *UserRepository) GetByNormalizedUserName(ctx context.Context, normalizedUserName string) (*domain.User, error) {
	return r.getOne(ctx, "normalized_user_name", normalizedUserName)
}

func (r *UserRepository) RecordAccessFailure(ctx context.Context, id string, maxAttempts int, lockoutEnd time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var count int
	err = tx.QueryRowContext(ctx,
		`UPDATE users SET access_failed_count = access_failed_count + 1, updated_at = ?
		 WHERE id = ? RETURNING access_failed_count`, now, id,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("increment access failures: %w", err)
	}

	locked := count >= maxAttempts
	if locked {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET access_failed_count = 0, lockout_end = ?, updated_at = ? WHERE id = ?`,
			lockoutEnd.UTC(), now, id,
		); err != nil {
			return false, fmt.Errorf("set lockout end: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit access failure: %w", err)
	}
	return locked, nil
}

func (r *UserRepository) ResetAccessFailures(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET access_failed_count = 0, lockout_end = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("reset access failures: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// getOne loads a single user by a unique column. column is never user input.
func (r *UserRepository) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	user := &domain.User{}
	var lockoutEnd sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value,
	).Scan(&user.ID, &user.UserName, &user.NormalizedUserName, &user.Email, &user.NormalizedEmail, &user.PhoneNumber,
		&user.PasswordHash, &user.EmailConfirmed, &user.SecurityStamp, &user.LockoutEnabled, &user.AccessFailedCount,
		&lockoutEnd, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", column, err)
	}
	if lockoutEnd.Valid {
		t := lockoutEnd.Time.UTC()
		user.LockoutEnd = &t
	}
	return user, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// uniqueViolation maps a SQLite unique constraint failure to the matching
// domain error, or returns nil for any other error.
func uniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.normalized_email"):
		return domain.ErrDuplicateEmail
	case strings.Contains(msg, "users.normalized_user_name"):
		return domain.ErrDuplicateUserName
	}
	return nil
}
