package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/service"
)

func TestSession_IssueAndValidate(t *testing.T) {
	_, signIn, _, user := newSignInFixture(t)

	token, issued, err := signIn.IssueSession(user, true)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	if want := issued.IssuedAt.Add(30 * 24 * time.Hour); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, issued.ExpiresAt)
	}

	session, err := signIn.ValidateSession(token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if session.UserID != user.ID || session.UserName != "alice" || !session.Persistent {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.SecurityStamp != user.SecurityStamp {
		t.Fatal("expected security stamp to round-trip")
	}
}

func TestSession_Expired(t *testing.T) {
	_, signIn, clock, user := newSignInFixture(t)

	token, _, err := signIn.IssueSession(user, false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	clock.Advance(31 * 24 * time.Hour)
	if _, err := signIn.ValidateSession(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSession_TamperedAndWrongSecret(t *testing.T) {
	db := newTestDB(t)
	_, signIn, _, user := newSignInFixture(t)

	token, _, err := signIn.IssueSession(user, false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	tampered := token[:len(token)-5] + "XXXXX"
	if _, err := signIn.ValidateSession(tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for tampered token, got %v", err)
	}

	other := service.NewSignInManager(db.Users(), service.DefaultOptions(), "a-completely-different-secret-value!!")
	if _, err := other.ValidateSession(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}

	if _, err := signIn.ValidateSession("not-a-valid-jwt"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSession_NeedsRefresh(t *testing.T) {
	_, signIn, clock, user := newSignInFixture(t)

	_, session, err := signIn.IssueSession(user, false)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	clock.Advance(14 * 24 * time.Hour)
	if signIn.NeedsRefresh(session) {
		t.Fatal("should not refresh before half the lifetime")
	}
	clock.Advance(2 * 24 * time.Hour)
	if !signIn.NeedsRefresh(session) {
		t.Fatal("should refresh after half the lifetime")
	}

	opts := service.DefaultOptions()
	opts.Cookie.SlidingExpiration = false
	fixed := service.NewSignInManager(newTestDB(t).Users(), opts, testJWTSecret).WithClock(clock.Now)
	if fixed.NeedsRefresh(session) {
		t.Fatal("non-sliding sessions never refresh")
	}
}
