package handler

import (
	"time"

	"github.com/msomdec/identity-app/internal/domain"
)

// UserDTO is the JSON representation of a signed-in user. Credentials and
// lockout state are never exposed.
type UserDTO struct {
	ID             string `json:"id"`
	UserName       string `json:"userName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	EmailConfirmed bool   `json:"emailConfirmed"`
	CreatedAt      string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		UserName:       u.UserName,
		Email:          u.Email,
		PhoneNumber:    u.PhoneNumber,
		EmailConfirmed: u.EmailConfirmed,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}
