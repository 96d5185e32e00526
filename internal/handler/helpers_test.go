package handler_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/handler"
	"github.com/msomdec/identity-app/internal/repository/sqlite"
	"github.com/msomdec/identity-app/internal/service"
)

const (
	testJWTSecret = "test-secret-for-handler-tests-0123456789"
	validPassword = "Secure#Pass1"
)

// testOptions is the default policy with cookies allowed over plain HTTP.
func testOptions() service.IdentityOptions {
	opts := service.DefaultOptions()
	opts.Cookie.Secure = false
	return opts
}

func newTestServices(t *testing.T) (*service.UserManager, *service.SignInManager) {
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

	opts := testOptions()
	users := service.NewUserManager(db.Users(), opts, 4).
		AddUserValidator(service.UserNameValidator{}).
		AddPasswordValidator(service.PasswordUserNameValidator{})
	return users, service.NewSignInManager(db.Users(), opts, testJWTSecret)
}

func createUser(t *testing.T, users *service.UserManager, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{UserName: name, Email: email, PhoneNumber: "5551234567", EmailConfirmed: true}
	result, err := users.Create(context.Background(), user, validPassword)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("Create failed: %v", result.Descriptions())
	}
	return user
}

func newTestServer(t *testing.T, users handler.UserManager, signIn handler.SignInManager) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, users, signIn, testOptions().Cookie, nil)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client with a cookie jar that does not follow redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
