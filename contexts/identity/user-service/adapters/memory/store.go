package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domainerrors "shopsync/contexts/identity/user-service/domain/errors"
	"shopsync/contexts/identity/user-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]ports.User
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{users: make(map[string]ports.User)}
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateUser(_ context.Context, user ports.User) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(user.UserID) == "" {
		user.UserID = uuid.NewString()
	}
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (ports.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) UpdateDisplayName(_ context.Context, userID string, displayName string, now time.Time) (ports.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.TrimSpace(userID)]
	if !ok {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	user.DisplayName = displayName
	user.UpdatedAt = now.UTC()
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
