package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/msomdec/identity-app/internal/domain"
	"golang.org/x/text/cases"
)

// Identity error codes.
const (
	CodeUserNameEmpty                   = "UserNameEmpty"
	CodeUserNameStartsWithNumber        = "UserNameStartsWithNumber"
	CodeInvalidUserName                 = "InvalidUserName"
	CodeInvalidEmail                    = "InvalidEmail"
	CodeDuplicateUserName               = "DuplicateUserName"
	CodeDuplicateEmail                  = "DuplicateEmail"
	CodePasswordContainsUserName        = "PasswordContainsUserName"
	CodePasswordTooShort                = "PasswordTooShort"
	CodePasswordTooLong                 = "PasswordTooLong"
	CodePasswordRequiresNonAlphanumeric = "PasswordRequiresNonAlphanumeric"
	CodePasswordRequiresDigit           = "PasswordRequiresDigit"
	CodePasswordRequiresLower           = "PasswordRequiresLower"
	CodePasswordRequiresUpper           = "PasswordRequiresUpper"
	CodePasswordRequiresUniqueChars     = "PasswordRequiresUniqueChars"
)

// UserValidator checks an account before it is created.
type UserValidator interface {
	ValidateUser(user *domain.User) domain.IdentityResult
}

// PasswordValidator checks a candidate password for an account.
type PasswordValidator interface {
	ValidatePassword(user *domain.User, password string) domain.IdentityResult
}

// Normalize returns the case-folded lookup key for a username or email.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// UserNameValidator rejects usernames that are empty or start with a decimal digit.
type UserNameValidator struct{}

func (UserNameValidator) ValidateUser(user *domain.User) domain.IdentityResult {
	first, size := utf8.DecodeRuneInString(user.UserName)
	if size == 0 {
		return domain.Failed(domain.IdentityError{
			Code:        CodeUserNameEmpty,
			Description: "Username cannot be empty.",
		})
	}
	if first >= '0' && first <= '9' {
		return domain.Failed(domain.IdentityError{
			Code:        CodeUserNameStartsWithNumber,
			Description: "Username cannot start with a number.",
		})
	}
	return domain.Success()
}

// PasswordUserNameValidator rejects passwords that contain the username,
// ignoring case.
type PasswordUserNameValidator struct{}

func (PasswordUserNameValidator) ValidatePassword(user *domain.User, password string) domain.IdentityResult {
	name := cases.Fold().String(user.UserName)
	if name == "" {
		return domain.Success()
	}
	if strings.Contains(cases.Fold().String(password), name) {
		return domain.Failed(domain.IdentityError{
			Code:        CodePasswordContainsUserName,
			Description: "Password field cannot contain username.",
		})
	}
	return domain.Success()
}

// AllowedCharactersValidator rejects usernames containing characters outside
// Allowed. An empty Allowed set accepts everything.
type AllowedCharactersValidator struct {
	Allowed string
}

func (v AllowedCharactersValidator) ValidateUser(user *domain.User) domain.IdentityResult {
	if v.Allowed == "" || user.UserName == "" {
		return domain.Success()
	}
	for _, r := range user.UserName {
		if !strings.ContainsRune(v.Allowed, r) {
			return domain.Failed(domain.IdentityError{
				Code:        CodeInvalidUserName,
				Description: fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", user.UserName),
			})
		}
	}
	return domain.Success()
}

// PasswordPolicyValidator applies PasswordOptions. Every failing rule is
// reported, not only the first.
type PasswordPolicyValidator struct {
	Options PasswordOptions
}

func (v PasswordPolicyValidator) ValidatePassword(_ *domain.User, password string) domain.IdentityResult {
	var errs []domain.IdentityError
	opts := v.Options

	if utf8.RuneCountInString(password) < opts.RequiredLength {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordTooShort,
			Description: fmt.Sprintf("Passwords must be at least %d characters.", opts.RequiredLength),
		})
	}

	var hasDigit, hasLower, hasUpper, hasOther bool
	unique := make(map[rune]struct{})
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			// Letters and digits outside ASCII count for neither class.
			hasOther = true
		}
		unique[r] = struct{}{}
	}

	if opts.RequireNonAlphanumeric && !hasOther {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordRequiresNonAlphanumeric,
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}
	if opts.RequireDigit && !hasDigit {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordRequiresDigit,
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if opts.RequireLowercase && !hasLower {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordRequiresLower,
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if opts.RequireUppercase && !hasUpper {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordRequiresUpper,
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}
	if opts.RequiredUniqueChars > 1 && len(unique) < opts.RequiredUniqueChars {
		errs = append(errs, domain.IdentityError{
			Code:        CodePasswordRequiresUniqueChars,
			Description: fmt.Sprintf("Passwords must use at least %d different characters.", opts.RequiredUniqueChars),
		})
	}

	return domain.Failed(errs...)
}
