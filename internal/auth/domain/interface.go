package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/AnthoniusHendriyanto/eventhub-auth/internal/auth/domain UserRepository

import "context"

// UserRepository is the credential store. Lookups that match nothing return
// errors.ErrUserNotFound; an insert that collides on email returns
// errors.ErrEmailAlreadyInUse.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) error
}
