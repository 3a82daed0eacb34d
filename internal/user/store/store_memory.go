// Package store persists users. All implementations enforce username
// uniqueness at write time and report it as sentinel.ErrAlreadyUsed.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/AmineOzil/user-registration/internal/user/models"
	"github.com/AmineOzil/user-registration/pkg/platform/sentinel"
)

// InMemory is a map-backed user store for local runs and tests.
type InMemory struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	nextID int64
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[string]*models.User)}
}

func (s *InMemory) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *InMemory) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneUser(u), nil
}

// Create checks and inserts under one lock, then assigns the next ID.
func (s *InMemory) Create(_ context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[user.Username]; taken {
		return fmt.Errorf("username %q: %w", user.Username, sentinel.ErrAlreadyUsed)
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = cloneUser(user)
	return nil
}

// Ping always succeeds.
func (s *InMemory) Ping(context.Context) error {
	return nil
}

// Count returns the number of stored users.
func (s *InMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.PhoneNumber != nil {
		phone := *u.PhoneNumber
		c.PhoneNumber = &phone
	}
	if u.Gender != nil {
		g := *u.Gender
		c.Gender = &g
	}
	return &c
}
