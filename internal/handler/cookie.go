package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/msomdec/identity-app/internal/service"
)

const noticeCookie = "Notice"

// setSessionCookie writes the session token. Persistent sessions survive a
// browser restart; others end with the browser session even though the token
// itself stays valid until ExpiresAt.
func setSessionCookie(w http.ResponseWriter, opts service.CookieOptions, token string, session *service.Session) {
	c := &http.Cookie{
		Name:     opts.Name,
		Value:    token,
		Path:     opts.Path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if session.Persistent {
		c.Expires = session.ExpiresAt
		c.MaxAge = int(session.ExpiresAt.Sub(session.IssuedAt).Seconds())
	}
	http.SetCookie(w, c)
}

func clearSessionCookie(w http.ResponseWriter, opts service.CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    "",
		Path:     opts.Path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// setNotice stores a message shown once on the next page load.
func setNotice(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice returns the pending notice, if any, and clears it.
func popNotice(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(noticeCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	msg, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
