package postgres

import (
	"context"
	"fmt"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// AdminAccountStore implements storage.AdminAccountStore using PostgreSQL.
type AdminAccountStore struct {
	pool *Pool
}

// NewAdminAccountStore creates a new AdminAccountStore.
func NewAdminAccountStore(pool *Pool) *AdminAccountStore {
	return &AdminAccountStore{pool: pool}
}

var _ storage.AdminAccountStore = (*AdminAccountStore)(nil)

// Insert adds an account. Returns ErrDuplicateKey if the email exists.
func (s *AdminAccountStore) Insert(ctx context.Context, a *domain.AdminAccount) error {
	if a == nil || a.Email == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_accounts (email, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4)
	`, a.Email, a.PasswordHash, a.Salt, a.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert admin account: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account. Returns ErrNotFound if absent.
func (s *AdminAccountStore) GetByEmail(ctx context.Context, email string) (*domain.AdminAccount, error) {
	var a domain.AdminAccount
	err := s.pool.QueryRow(ctx, `
		SELECT email, password_hash, salt, created_at
		FROM admin_accounts WHERE email = $1
	`, email).Scan(&a.Email, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get admin account: %w", err)
	}
	return &a, nil
}

// SessionStore implements storage.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *Pool
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(pool *Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

var _ storage.SessionStore = (*SessionStore)(nil)

// Insert adds a session. Returns ErrDuplicateKey if the token exists.
func (s *SessionStore) Insert(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.Token == "" {
		return storage.ErrInvalidInput
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_sessions (token, email, expires_at)
		VALUES ($1, $2, $3)
	`, sess.Token, sess.Email, sess.ExpiresAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByToken retrieves a session. Returns ErrNotFound if absent.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := s.pool.QueryRow(ctx, `
		SELECT token, email, expires_at FROM admin_sessions WHERE token = $1
	`, token).Scan(&sess.Token, &sess.Email, &sess.ExpiresAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Returns ErrNotFound if absent.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions with expires_at <= now (ms).
func (s *SessionStore) DeleteExpired(ctx context.Context, nowMs int64) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, nowMs)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
