package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a simple in-process store for local/dev use and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	users    map[string]UserRecord    // keyed by username
	profiles map[string]ProfileRecord // keyed by user id
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[string]UserRecord),
		profiles: make(map[string]ProfileRecord),
	}
}

func (s *InMemoryStore) CreateUser(_ context.Context, username, passwordHash string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return UserRecord{}, ErrUsernameTaken
	}
	user := UserRecord{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[username] = user
	return user, nil
}

func (s *InMemoryStore) UserByUsername(_ context.Context, username string) (UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) Profile(_ context.Context, userID string) (ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ProfileRecord{}, ErrNotFound
	}
	return p, nil
}

func (s *InMemoryStore) SaveOnboarding(_ context.Context, profile ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var username string
	for name, u := range s.users {
		if u.ID == profile.UserID {
			username = name
			break
		}
	}
	if username == "" {
		return ErrNotFound
	}

	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	s.profiles[profile.UserID] = profile

	user := s.users[username]
	user.HasOnboarded = true
	s.users[username] = user
	return nil
}

func (s *InMemoryStore) UpdateProfile(_ context.Context, userID string, upd ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ErrNotFound
	}
	p.FullName = upd.FullName
	p.Age = upd.Age
	p.Education = upd.Education
	p.CurrentRole = upd.CurrentRole
	p.HardSkills = upd.HardSkills
	p.DreamGoal = upd.DreamGoal
	p.UpdatedAt = time.Now().UTC()
	s.profiles[userID] = p
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
