package domain

import (
	"testing"
	"time"
)

func TestIdentityResult_Merge(t *testing.T) {
	a := Failed(IdentityError{Code: "A", Description: "first"})
	b := Failed(IdentityError{Code: "B", Description: "second"})

	merged := a.Merge(Success()).Merge(b)
	if merged.Succeeded() {
		t.Fatal("expected failure")
	}
	got := merged.Descriptions()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected descriptions %v", got)
	}
	if !merged.HasCode("B") || merged.HasCode("C") {
		t.Fatal("HasCode mismatch")
	}
	if !Success().Merge(Success()).Succeeded() {
		t.Fatal("merging successes should succeed")
	}
}

func TestUser_IsLockedOut(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(time.Minute)

	u := &User{}
	if u.IsLockedOut(now) {
		t.Fatal("no lockout end means not locked")
	}
	u.LockoutEnd = &until
	if !u.IsLockedOut(now) {
		t.Fatal("expected locked before end")
	}
	if u.IsLockedOut(until) {
		t.Fatal("expected unlocked at end")
	}
}

func TestSignInResult_String(t *testing.T) {
	tests := map[SignInResult]string{
		SignInFailed:     "failed",
		SignInSucceeded:  "succeeded",
		SignInLockedOut:  "locked_out",
		SignInNotAllowed: "not_allowed",
	}
	for r, want := range tests {
		if r.String() != want {
			t.Errorf("%d.String() = %q, want %q", r, r.String(), want)
		}
	}
}
