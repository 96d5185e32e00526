package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "identity-app.db", c.DatabasePath)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, 2*time.Minute, c.LockoutWindow)
	assert.Equal(t, 3, c.LockoutMaxAttempts)
	assert.Equal(t, 30*24*time.Hour, c.SessionLifetime)
	assert.NoError(t, c.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOCKOUT_WINDOW", "5m")
	t.Setenv("LOCKOUT_MAX_ATTEMPTS", "5")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Port)
	assert.False(t, c.CookieSecure)
	assert.Equal(t, 4, c.BcryptCost)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)

	opts := c.Identity()
	assert.Equal(t, 5*time.Minute, opts.Lockout.DefaultLockoutTimeSpan)
	assert.Equal(t, 5, opts.Lockout.MaxFailedAccessAttempts)
	assert.False(t, opts.Cookie.Secure)
	assert.Equal(t, "AppCookie", opts.Cookie.Name)
	assert.Equal(t, 6, opts.Password.RequiredLength)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("BCRYPT_COST", "twelve")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Config{
		JWTSecret:          "short",
		BcryptCost:         20,
		LockoutWindow:      time.Minute,
		LockoutMaxAttempts: 0,
		SessionLifetime:    time.Hour,
		SignInRateBurst:    1,
	}

	err := c.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, strings.Contains(msg, "JWT_SECRET must be at least 32 characters"))
	assert.True(t, strings.Contains(msg, "BCRYPT_COST"))
	assert.True(t, strings.Contains(msg, "LOCKOUT_MAX_ATTEMPTS"))

	c.JWTSecret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET environment variable is required")
}
