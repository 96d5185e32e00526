package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/identity-app/internal/repository/sqlite"
	"github.com/msomdec/identity-app/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUserManager returns a manager with the application validators
// registered. Cost 4 keeps bcrypt fast.
func newTestUserManager(t *testing.T, db *sqlite.DB) *service.UserManager {
	t.Helper()
	return service.NewUserManager(db.Users(), service.DefaultOptions(), 4).
		AddUserValidator(service.UserNameValidator{}).
		AddPasswordValidator(service.PasswordUserNameValidator{})
}
