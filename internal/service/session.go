package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/identity-app/internal/domain"
)

// Session is the authenticated identity carried by the session cookie.
type Session struct {
	UserID        string
	UserName      string
	Email         string
	SecurityStamp string
	Persistent    bool
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

type sessionClaims struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Stamp      string `json:"stamp"`
	Persistent bool   `json:"persistent,omitempty"`
	jwt.RegisteredClaims
}

// IssueSession signs a session token for user. The token expires after the
// configured cookie lifetime.
func (m *SignInManager) IssueSession(user *domain.User, persistent bool) (string, *Session, error) {
	now := m.now().Truncate(time.Second)
	expires := now.Add(m.opts.Cookie.ExpireTimeSpan)

	claims := sessionClaims{
		Name:       user.UserName,
		Email:      user.Email,
		Stamp:      user.SecurityStamp,
		Persistent: persistent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}

	return token, &Session{
		UserID:        user.ID,
		UserName:      user.UserName,
		Email:         user.Email,
		SecurityStamp: user.SecurityStamp,
		Persistent:    persistent,
		IssuedAt:      now,
		ExpiresAt:     expires,
	}, nil
}

// ValidateSession parses and verifies a session token.
func (m *SignInManager) ValidateSession(tokenString string) (*Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.jwtSecret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, domain.ErrUnauthorized
	}

	return &Session{
		UserID:        claims.Subject,
		UserName:      claims.Name,
		Email:         claims.Email,
		SecurityStamp: claims.Stamp,
		Persistent:    claims.Persistent,
		IssuedAt:      claims.IssuedAt.Time,
		ExpiresAt:     claims.ExpiresAt.Time,
	}, nil
}

// NeedsRefresh reports whether a sliding session is past half of its
// lifetime and should be reissued.
func (m *SignInManager) NeedsRefresh(s *Session) bool {
	if !m.opts.Cookie.SlidingExpiration {
		return false
	}
	lifetime := s.ExpiresAt.Sub(s.IssuedAt)
	return m.now().Sub(s.IssuedAt) > lifetime/2
}
