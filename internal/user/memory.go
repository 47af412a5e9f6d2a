package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store implementation used in tests and for
// running without redis.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]string),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.users[s.nextID] = name
	return User{ID: s.nextID, Name: name}, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(s.users))
	for id, name := range s.users {
		users = append(users, User{ID: id, Name: name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return User{ID: id, Name: name}, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	s.users[id] = name
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}
