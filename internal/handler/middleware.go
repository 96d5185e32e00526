package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/msomdec/identity-app/internal/domain"
	"github.com/msomdec/identity-app/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// userName returns the signed-in username for page chrome, or "".
func userName(r *http.Request) string {
	if user := UserFromContext(r.Context()); user != nil {
		return user.UserName
	}
	return ""
}

// SessionAuth resolves the session cookie into a user.
type SessionAuth struct {
	users  UserManager
	signIn SignInManager
	cookie service.CookieOptions
}

// NewSessionAuth creates a new SessionAuth.
func NewSessionAuth(users UserManager, signIn SignInManager, cookie service.CookieOptions) *SessionAuth {
	return &SessionAuth{users: users, signIn: signIn, cookie: cookie}
}

// RequireAuth protects routes requiring a signed-in user. Anonymous requests
// are redirected to the login path with the original URL as ReturnUrl.
func (a *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(w, r)
		if err != nil {
			target := a.cookie.LoginPath + "?ReturnUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attempts to authenticate but does not block anonymous
// requests. If a valid session is present, the user is injected into context.
func (a *SessionAuth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(w, r)
		if err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate validates the session cookie and loads its user. A session
// whose security stamp no longer matches the account is rejected. Sliding
// sessions past half their lifetime are reissued.
func (a *SessionAuth) authenticate(w http.ResponseWriter, r *http.Request) (*domain.User, error) {
	cookie, err := r.Cookie(a.cookie.Name)
	if err != nil {
		return nil, err
	}

	session, err := a.signIn.ValidateSession(cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := a.users.FindByID(r.Context(), session.UserID)
	if err != nil {
		return nil, err
	}
	if user.SecurityStamp != session.SecurityStamp {
		return nil, domain.ErrUnauthorized
	}

	if a.signIn.NeedsRefresh(session) {
		token, renewed, err := a.signIn.IssueSession(user, session.Persistent)
		if err != nil {
			slog.Error("refresh session", "error", err)
		} else {
			setSessionCookie(w, a.cookie, token, renewed)
		}
	}

	return user, nil
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests from clients that exceed limiter with 429.
// A nil limiter disables the check.
func RateLimit(limiter *service.RateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientIP(r)) {
			slog.Warn("rate limit exceeded", "ip", clientIP(r), "path", r.URL.Path)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
