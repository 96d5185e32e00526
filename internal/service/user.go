package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/msomdec/identity-app/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserManager creates and looks up accounts. Creation runs every registered
// validator and persists nothing unless all of them pass.
type UserManager struct {
	users              domain.UserRepository
	opts               IdentityOptions
	bcryptCost         int
	userValidators     []UserValidator
	passwordValidators []PasswordValidator

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserManager creates a UserManager with the built-in username character
// and password policy checks. Application validators are added with
// AddUserValidator and AddPasswordValidator.
func NewUserManager(users domain.UserRepository, opts IdentityOptions, bcryptCost int) *UserManager {
	return &UserManager{
		users:              users,
		opts:               opts,
		bcryptCost:         bcryptCost,
		userValidators:     []UserValidator{AllowedCharactersValidator{Allowed: opts.User.AllowedUserNameCharacters}},
		passwordValidators: []PasswordValidator{PasswordPolicyValidator{Options: opts.Password}},
	}
}

// AddUserValidator registers an additional account validator.
func (m *UserManager) AddUserValidator(v UserValidator) *UserManager {
	m.userValidators = append(m.userValidators, v)
	return m
}

// AddPasswordValidator registers an additional password validator.
func (m *UserManager) AddPasswordValidator(v PasswordValidator) *UserManager {
	m.passwordValidators = append(m.passwordValidators, v)
	return m
}

// FindByEmail looks up an account by email, ignoring case.
func (m *UserManager) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users.GetByNormalizedEmail(ctx, Normalize(email))
}

// CompareUnknownUser spends one bcrypt comparison at the configured cost
// against a throwaway hash. Sign-in calls it when no account matches, so a
// missing email takes as long as a wrong password.
func (m *UserManager) CompareUnknownUser(password string) {
	m.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), m.bcryptCost)
		if err != nil {
			// Only an out-of-range cost fails here, and Create would fail the same way.
			hash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		}
		m.dummyHash = hash
	})
	_ = bcrypt.CompareHashAndPassword(m.dummyHash, []byte(password))
}

// FindByID looks up an account by its ID.
func (m *UserManager) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return m.users.GetByID(ctx, id)
}

// Create validates and stores a new account with the given password.
// Validation failures are reported in the result; the returned error is
// reserved for infrastructure failures.
func (m *UserManager) Create(ctx context.Context, user *domain.User, password string) (domain.IdentityResult, error) {
	user.NormalizedUserName = Normalize(user.UserName)
	user.NormalizedEmail = Normalize(user.Email)

	result, err := m.ValidateUser(ctx, user)
	if err != nil {
		return domain.IdentityResult{}, err
	}
	result = result.Merge(m.ValidatePassword(user, password))
	if !result.Succeeded() {
		return result, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.Failed(domain.IdentityError{
				Code:        CodePasswordTooLong,
				Description: "Passwords must be at most 72 bytes.",
			}), nil
		}
		return domain.IdentityResult{}, fmt.Errorf("hash password: %w", err)
	}

	user.ID = uuid.NewString()
	user.SecurityStamp = uuid.NewString()
	user.PasswordHash = string(hash)
	user.LockoutEnabled = m.opts.Lockout.AllowedForNewUsers
	user.AccessFailedCount = 0
	user.LockoutEnd = nil

	if err := m.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUserName):
			return domain.Failed(duplicateUserName(user.UserName)), nil
		case errors.Is(err, domain.ErrDuplicateEmail):
			return domain.Failed(duplicateEmail(user.Email)), nil
		}
		return domain.IdentityResult{}, fmt.Errorf("create user: %w", err)
	}

	return domain.Success(), nil
}

// ValidateUser runs the account validators and the uniqueness checks.
func (m *UserManager) ValidateUser(ctx context.Context, user *domain.User) (domain.IdentityResult, error) {
	result := domain.Success()
	for _, v := range m.userValidators {
		result = result.Merge(v.ValidateUser(user))
	}

	if user.NormalizedUserName != "" {
		_, err := m.users.GetByNormalizedUserName(ctx, user.NormalizedUserName)
		switch {
		case err == nil:
			result = result.Merge(domain.Failed(duplicateUserName(user.UserName)))
		case !errors.Is(err, domain.ErrNotFound):
			return domain.IdentityResult{}, fmt.Errorf("check username: %w", err)
		}
	}

	if user.NormalizedEmail == "" {
		return result.Merge(domain.Failed(domain.IdentityError{
			Code:        CodeInvalidEmail,
			Description: fmt.Sprintf("Email '%s' is invalid.", user.Email),
		})), nil
	}
	_, err := m.users.GetByNormalizedEmail(ctx, user.NormalizedEmail)
	switch {
	case err == nil:
		result = result.Merge(domain.Failed(duplicateEmail(user.Email)))
	case !errors.Is(err, domain.ErrNotFound):
		return domain.IdentityResult{}, fmt.Errorf("check email: %w", err)
	}

	return result, nil
}

// ValidatePassword runs the password validators. It performs no I/O.
func (m *UserManager) ValidatePassword(user *domain.User, password string) domain.IdentityResult {
	result := domain.Success()
	for _, v := range m.passwordValidators {
		result = result.Merge(v.ValidatePassword(user, password))
	}
	return result
}

// ValidateCandidate runs the account and password validators without
// touching storage, so uniqueness is not checked.
func (m *UserManager) ValidateCandidate(user *domain.User, password string) domain.IdentityResult {
	result := domain.Success()
	for _, v := range m.userValidators {
		result = result.Merge(v.ValidateUser(user))
	}
	return result.Merge(m.ValidatePassword(user, password))
}

func duplicateUserName(name string) domain.IdentityError {
	return domain.IdentityError{
		Code:        CodeDuplicateUserName,
		Description: fmt.Sprintf("Username '%s' is already taken.", name),
	}
}

func duplicateEmail(email string) domain.IdentityError {
	return domain.IdentityError{
		Code:        CodeDuplicateEmail,
		Description: fmt.Sprintf("Email '%s' is already taken.", email),
	}
}
