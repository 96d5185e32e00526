package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newUser(name, email string) *domain.User {
	return &domain.User{
		ID:                 uuid.NewString(),
		UserName:           name,
		NormalizedUserName: name,
		Email:              email,
		NormalizedEmail:    email,
		PhoneNumber:        "5551234567",
		PasswordHash:       "hashedpw",
		EmailConfirmed:     true,
		SecurityStamp:      uuid.NewString(),
		LockoutEnabled:     true,
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("alice", "alice@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("user1", "dup@example.com")); err != nil {
		t.Fatalf("Create user1: %v", err)
	}

	err := repo.Create(ctx, newUser("user2", "dup@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_Create_DuplicateUserName(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newUser("same", "one@example.com")); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	err := repo.Create(ctx, newUser("same", "two@example.com"))
	if !errors.Is(err, domain.ErrDuplicateUserName) {
		t.Fatalf("expected ErrDuplicateUserName, got %v", err)
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("bob", "bob@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.UserName != "bob" || byID.PhoneNumber != "5551234567" || !byID.EmailConfirmed || !byID.LockoutEnabled {
		t.Fatalf("unexpected user: %+v", byID)
	}
	if byID.LockoutEnd != nil {
		t.Fatalf("expected no lockout end, got %v", byID.LockoutEnd)
	}

	byEmail, err := repo.GetByNormalizedEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetByNormalizedEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected ID %s, got %s", user.ID, byEmail.ID)
	}

	byName, err := repo.GetByNormalizedUserName(ctx, "bob")
	if err != nil {
		t.Fatalf("GetByNormalizedUserName: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected ID %s, got %s", user.ID, byName.ID)
	}

	if _, err := repo.GetByNormalizedEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_RecordAccessFailure_LocksAtThreshold(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("carol", "carol@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	end := time.Now().Add(2 * time.Minute).UTC().Truncate(time.Second)
	for i := 1; i <= 2; i++ {
		locked, err := repo.RecordAccessFailure(ctx, user.ID, 3, end)
		if err != nil {
			t.Fatalf("RecordAccessFailure %d: %v", i, err)
		}
		if locked {
			t.Fatalf("attempt %d should not lock", i)
		}
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AccessFailedCount != 2 {
		t.Fatalf("expected 2 failures, got %d", got.AccessFailedCount)
	}

	locked, err := repo.RecordAccessFailure(ctx, user.ID, 3, end)
	if err != nil {
		t.Fatalf("RecordAccessFailure 3: %v", err)
	}
	if !locked {
		t.Fatal("third failure should lock the account")
	}

	got, err = repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AccessFailedCount != 0 {
		t.Fatalf("expected counter reset on lockout, got %d", got.AccessFailedCount)
	}
	if got.LockoutEnd == nil || !got.LockoutEnd.Equal(end) {
		t.Fatalf("expected lockout end %v, got %v", end, got.LockoutEnd)
	}
}

func TestUserRepository_RecordAccessFailure_Concurrent(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("dave", "dave@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	lockCount := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locked, err := repo.RecordAccessFailure(ctx, user.ID, attempts, time.Now().Add(time.Minute))
			if err != nil {
				t.Errorf("RecordAccessFailure: %v", err)
				return
			}
			if locked {
				mu.Lock()
				lockCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if lockCount != 1 {
		t.Fatalf("expected exactly one locking attempt, got %d", lockCount)
	}
}

func TestUserRepository_ResetAccessFailures(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewUserRepository(db)
	ctx := context.Background()

	user := newUser("erin", "erin@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.RecordAccessFailure(ctx, user.ID, 1, time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("RecordAccessFailure: %v", err)
	}

	if err := repo.ResetAccessFailures(ctx, user.ID); err != nil {
		t.Fatalf("ResetAccessFailures: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AccessFailedCount != 0 || got.LockoutEnd != nil {
		t.Fatalf("expected cleared lockout state, got count=%d end=%v", got.AccessFailedCount, got.LockoutEnd)
	}

	if err := repo.ResetAccessFailures(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
