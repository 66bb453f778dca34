package dto

import (
	"time"

	"github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/domain"
)

// UserOutput is the public view of a user returned by register and login.
type UserOutput struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	School    string `json:"school"`
	Role      string `json:"role,omitempty"`
}

type AuthOutput struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      UserOutput `json:"user"`
}

type ProfileOutput struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	School    string    `json:"school"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		School:    u.School,
		Role:      u.Role,
	}
}

func NewProfileOutput(u *domain.User) ProfileOutput {
	return ProfileOutput{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		School:    u.School,
		CreatedAt: u.CreatedAt,
	}
}
