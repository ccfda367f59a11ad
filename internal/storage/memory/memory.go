package memory

import (
	"context"
	"sync"
	"time"

	"github.com/larapida/go-webnode/internal/domain"
	"github.com/larapida/go-webnode/internal/storage"
)

// Store implements an in-memory storage
type Store struct {
	users *UserStore
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		users: &UserStore{
			data:    make(map[domain.UserID]*domain.User),
			byEmail: make(map[string]domain.UserID),
		},
	}
}

func (s *Store) Users() storage.UserStore       { return s.users }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

// UserStore implements in-memory user storage
type UserStore struct {
	mu      sync.RWMutex
	data    map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" || user.Email == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[user.ID]; exists {
		return storage.ErrAlreadyExists
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return storage.ErrAlreadyExists
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	s.data[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[domain.NormalizeEmail(email)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	u := *s.data[id]
	return &u, nil
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.data[user.ID]
	if !exists {
		return storage.ErrNotFound
	}
	if existing.Email != user.Email {
		if _, taken := s.byEmail[user.Email]; taken {
			return storage.ErrAlreadyExists
		}
		delete(s.byEmail, existing.Email)
		s.byEmail[user.Email] = user.ID
	}

	user.UpdatedAt = time.Now()
	stored := *user
	s.data[user.ID] = &stored
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.data[id]
	if !exists {
		return storage.ErrNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.data, id)
	return nil
}
