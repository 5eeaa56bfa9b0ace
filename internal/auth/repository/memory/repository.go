// Package memory provides a non-persistent UserRepository for demo
// deployments and tests. Records vanish on restart; the capability is
// declared through Persistent rather than inferred by callers.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
	autherror "github.com/kalpajyotisaikia/sharpy-auth-service/internal/errors"
)

type MemoryRepository struct {
	mu            sync.RWMutex
	usersByPhone  map[string]*domain.User
	usersByID     map[string]*domain.User
	notifications map[string][]domain.Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		usersByPhone:  make(map[string]*domain.User),
		usersByID:     make(map[string]*domain.User),
		notifications: make(map[string][]domain.Notification),
	}
}

func (r *MemoryRepository) Exists(_ context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.usersByPhone[phone]
	return ok, nil
}

func (r *MemoryRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.usersByPhone[user.Phone]; ok {
		return autherror.ErrPhoneAlreadyRegistered
	}

	stored := *user
	r.usersByPhone[stored.Phone] = &stored
	r.usersByID[stored.ID] = &stored

	return nil
}

func (r *MemoryRepository) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByPhone[phone]
	if !ok {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByID[id]
	if !ok {
		return nil, nil
	}

	copied := *user
	return &copied, nil
}

func (r *MemoryRepository) AddCoins(_ context.Context, userID string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.usersByID[userID]
	if !ok {
		return autherror.ErrPhoneNotRegistered
	}

	user.Coins += amount
	if user.Coins < 0 {
		user.Coins = 0
	}

	return nil
}

func (r *MemoryRepository) IsPremium(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByID[userID]
	if !ok {
		return false, nil
	}

	return user.IsPremium, nil
}

func (r *MemoryRepository) AddNotification(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[n.UserID] = append(r.notifications[n.UserID], *n)
	return nil
}

func (r *MemoryRepository) GetNotifications(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.notifications[userID]
	result := make([]domain.Notification, len(stored))
	copy(result, stored)

	// Newest first, matching the SQL ordering.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Persistent reports false: this driver loses all records on restart.
func (r *MemoryRepository) Persistent() bool {
	return false
}
