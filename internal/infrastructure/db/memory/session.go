package memory

import (
	"context"
	"sync"

	"github.com/99minutos/account-service/internal/core/domain"
)

// SessionStore is a single in-process session slot.
type SessionStore struct {
	mu      sync.RWMutex
	current domain.Account
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Current(_ context.Context) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

func (s *SessionStore) Start(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = account
	return nil
}

func (s *SessionStore) End(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}
