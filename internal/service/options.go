package service

import "time"

// IdentityOptions holds the account policy. It is built once at startup and
// passed by value, so later changes to the source never leak into running
// managers.
type IdentityOptions struct {
	User     UserOptions
	Password PasswordOptions
	Lockout  LockoutOptions
	SignIn   SignInOptions
	Cookie   CookieOptions
}

// UserOptions controls username acceptance.
type UserOptions struct {
	AllowedUserNameCharacters string
}

// PasswordOptions controls which candidate passwords are accepted at account creation.
type PasswordOptions struct {
	RequiredLength         int
	RequiredUniqueChars    int
	RequireNonAlphanumeric bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireDigit           bool
}

// LockoutOptions controls temporary lockout after repeated sign-in failures.
type LockoutOptions struct {
	DefaultLockoutTimeSpan  time.Duration
	MaxFailedAccessAttempts int
	AllowedForNewUsers      bool
}

// SignInOptions controls which accounts may sign in.
type SignInOptions struct {
	RequireConfirmedAccount bool
}

// CookieOptions describes the session cookie.
type CookieOptions struct {
	Name              string
	Path              string
	LoginPath         string
	LogoutPath        string
	ExpireTimeSpan    time.Duration
	SlidingExpiration bool
	Secure            bool
}

// DefaultOptions returns the application's account policy.
func DefaultOptions() IdentityOptions {
	return IdentityOptions{
		User: UserOptions{
			AllowedUserNameCharacters: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+",
		},
		Password: PasswordOptions{
			RequiredLength:         6,
			RequiredUniqueChars:    1,
			RequireNonAlphanumeric: true,
			RequireLowercase:       true,
			RequireUppercase:       true,
			RequireDigit:           true,
		},
		Lockout: LockoutOptions{
			DefaultLockoutTimeSpan:  2 * time.Minute,
			MaxFailedAccessAttempts: 3,
			AllowedForNewUsers:      true,
		},
		SignIn: SignInOptions{
			RequireConfirmedAccount: true,
		},
		Cookie: CookieOptions{
			Name:              "AppCookie",
			Path:              "/",
			LoginPath:         "/Home/Signin",
			LogoutPath:        "/Member/Logout",
			ExpireTimeSpan:    30 * 24 * time.Hour,
			SlidingExpiration: true,
			Secure:            true,
		},
	}
}
