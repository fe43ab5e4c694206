package memory

import (
	"context"
	"sync"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// AdminAccountStore is an in-memory implementation of storage.AdminAccountStore.
type AdminAccountStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AdminAccount // keyed by email
}

// NewAdminAccountStore creates a new in-memory account store.
func NewAdminAccountStore() *AdminAccountStore {
	return &AdminAccountStore{data: make(map[string]*domain.AdminAccount)}
}

var _ storage.AdminAccountStore = (*AdminAccountStore)(nil)

// Insert adds an account. Returns ErrDuplicateKey if the email exists.
func (s *AdminAccountStore) Insert(_ context.Context, a *domain.AdminAccount) error {
	if a == nil || a.Email == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.Email]; exists {
		return storage.ErrDuplicateKey
	}
	accountCopy := *a
	s.data[a.Email] = &accountCopy
	return nil
}

// GetByEmail retrieves an account. Returns ErrNotFound if absent.
func (s *AdminAccountStore) GetByEmail(_ context.Context, email string) (*domain.AdminAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[email]
	if !exists {
		return nil, storage.ErrNotFound
	}
	accountCopy := *a
	return &accountCopy, nil
}

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Session // keyed by token
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]*domain.Session)}
}

var _ storage.SessionStore = (*SessionStore)(nil)

// Insert adds a session. Returns ErrDuplicateKey if the token exists.
func (s *SessionStore) Insert(_ context.Context, sess *domain.Session) error {
	if sess == nil || sess.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sess.Token]; exists {
		return storage.ErrDuplicateKey
	}
	sessionCopy := *sess
	s.data[sess.Token] = &sessionCopy
	return nil
}

// GetByToken retrieves a session. Returns ErrNotFound if absent.
func (s *SessionStore) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.data[token]
	if !exists {
		return nil, storage.ErrNotFound
	}
	sessionCopy := *sess
	return &sessionCopy, nil
}

// Delete removes a session. Returns ErrNotFound if absent.
func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[token]; !exists {
		return storage.ErrNotFound
	}
	delete(s.data, token)
	return nil
}

// DeleteExpired removes sessions with ExpiresAt <= now (ms).
func (s *SessionStore) DeleteExpired(_ context.Context, nowMs int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.data {
		if sess.ExpiresAt <= nowMs {
			delete(s.data, token)
			removed++
		}
	}
	return removed, nil
}
