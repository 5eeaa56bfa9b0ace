package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain UserRepository

import "context"

type UserRepository interface {
	Exists(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *User) error
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	AddCoins(ctx context.Context, userID string, amount int) error
	IsPremium(ctx context.Context, userID string) (bool, error)
	AddNotification(ctx context.Context, n *Notification) error
	GetNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)

	// Persistent reports whether records survive process restarts. The
	// in-memory driver returns false; callers must never infer this from
	// connection behavior.
	Persistent() bool
}
