package handler

import (
	"context"

	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/service"
)

// UserManager is the account capability the handlers depend on.
type UserManager interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User, password string) (domain.IdentityResult, error)
	ValidateCandidate(user *domain.User, password string) domain.IdentityResult
	CompareUnknownUser(password string)
}

// SignInManager verifies passwords, tracks failed attempts, and manages
// session tokens.
type SignInManager interface {
	PasswordSignIn(ctx context.Context, user *domain.User, password string, lockoutOnFailure bool) (domain.SignInResult, error)
	IssueSession(user *domain.User, persistent bool) (string, *service.Session, error)
	ValidateSession(token string) (*service.Session, error)
	NeedsRefresh(session *service.Session) bool
}

var (
	_ UserManager   = (*service.UserManager)(nil)
	_ SignInManager = (*service.SignInManager)(nil)
)
