package handler

import (
	"net/http"

	"github.com/msomdec/identity-app/internal/service"
)

const (
	signUpPath = "/Home/SignUp"
	signInPath = "/Home/SignIn"
)

// RegisterRoutes sets up all HTTP routes on the given mux. A nil limiter
// disables throttling of form posts.
func RegisterRoutes(mux *http.ServeMux, users UserManager, signIn SignInManager, cookie service.CookieOptions, limiter *service.RateLimiter) {
	auth := NewSessionAuth(users, signIn, cookie)
	account := NewAccountHandler(users, signIn, cookie)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	home := auth.OptionalAuth(http.HandlerFunc(HandleHome))
	mux.Handle("GET /{$}", home)
	mux.Handle("GET /Home/Index", home)
	mux.Handle("GET /Home/Privacy", auth.OptionalAuth(http.HandlerFunc(HandlePrivacy)))

	mux.Handle("GET "+signUpPath, auth.OptionalAuth(http.HandlerFunc(account.HandleSignUpPage)))
	mux.Handle("POST "+signUpPath, RateLimit(limiter, auth.OptionalAuth(http.HandlerFunc(account.HandleSignUp))))
	// Signals include the password, so they travel in a POST body, never the URL.
	mux.HandleFunc("POST "+signUpPath+"/check", account.HandleSignUpCheck)

	// Redirects from RequireAuth use cookie.LoginPath, which is served
	// alongside the canonical path.
	for _, path := range uniquePaths(signInPath, cookie.LoginPath) {
		mux.Handle("GET "+path, auth.OptionalAuth(http.HandlerFunc(account.HandleSignInPage)))
		mux.Handle("POST "+path, RateLimit(limiter, http.HandlerFunc(account.HandleSignIn)))
	}

	mux.Handle("GET /Member/Index", auth.RequireAuth(http.HandlerFunc(HandleMemberIndex)))
	mux.Handle("GET /Member/Me", auth.RequireAuth(http.HandlerFunc(HandleMe)))
	for _, path := range uniquePaths(cookie.LogoutPath) {
		mux.HandleFunc("GET "+path, account.HandleLogout)
		mux.HandleFunc("POST "+path, account.HandleLogout)
	}
}

func uniquePaths(paths ...string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
