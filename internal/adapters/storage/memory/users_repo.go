package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"medtrack/internal/domain/users"
)

var (
	ErrNotFound = errors.New("not found")
)

type usersRepo struct {
	mu      sync.RWMutex
	byID    map[string]users.User
	byEmail map[string]string // email -> id
}

func NewUsersRepo() users.Repository {
	return &usersRepo{
		byID:    make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (r *usersRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	// El service chequea antes de crear, pero dos signups concurrentes
	// pueden pasar ambos el chequeo; acá el sentinel llega hasta el 409.
	if _, exists := r.byEmail[u.Email]; exists {
		return users.ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return users.User{}, ErrNotFound
	}
	return r.byID[id], nil
}
