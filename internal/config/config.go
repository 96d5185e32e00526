package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/msomdec/identity-app/internal/service"
)

// Config is the process configuration, read from the environment at startup.
type Config struct {
	Port         string     `env:"PORT"          envDefault:"8080"`
	DatabasePath string     `env:"DATABASE_PATH" envDefault:"identity-app.db"`
	JWTSecret    string     `env:"JWT_SECRET"`
	CookieSecure bool       `env:"COOKIE_SECURE" envDefault:"true"`
	BcryptCost   int        `env:"BCRYPT_COST"   envDefault:"12"`
	LogLevel     slog.Level `env:"LOG_LEVEL"     envDefault:"INFO"`

	LockoutWindow      time.Duration `env:"LOCKOUT_WINDOW"       envDefault:"2m"`
	LockoutMaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"3"`
	SessionLifetime    time.Duration `env:"SESSION_LIFETIME"     envDefault:"720h"`

	SignInRatePerMinute float64 `env:"SIGNIN_RATE_PER_MINUTE" envDefault:"30"`
	SignInRateBurst     int     `env:"SIGNIN_RATE_BURST"      envDefault:"10"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	case len(c.JWTSecret) < 32:
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.LockoutWindow <= 0 {
		errs = append(errs, fmt.Errorf("LOCKOUT_WINDOW must be positive, got %s", c.LockoutWindow))
	}
	if c.LockoutMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LOCKOUT_MAX_ATTEMPTS must be at least 1, got %d", c.LockoutMaxAttempts))
	}
	if c.SessionLifetime <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", c.SessionLifetime))
	}
	if c.SignInRateBurst < 1 {
		errs = append(errs, fmt.Errorf("SIGNIN_RATE_BURST must be at least 1, got %d", c.SignInRateBurst))
	}
	return errors.Join(errs...)
}

// Identity returns the account policy with the configurable parts applied.
func (c Config) Identity() service.IdentityOptions {
	opts := service.DefaultOptions()
	opts.Lockout.DefaultLockoutTimeSpan = c.LockoutWindow
	opts.Lockout.MaxFailedAccessAttempts = c.LockoutMaxAttempts
	opts.Cookie.ExpireTimeSpan = c.SessionLifetime
	opts.Cookie.Secure = c.CookieSecure
	return opts
}
