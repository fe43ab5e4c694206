package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

func TestAdminAccountStore_InsertAndGetByEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAdminAccountStore(pool)
	ctx := context.Background()

	account := &domain.AdminAccount{
		Email:        "admin@example.com",
		PasswordHash: "deadbeef",
		Salt:         "cafe",
		CreatedAt:    1700000000000,
	}
	require.NoError(t, store.Insert(ctx, account))
	assert.ErrorIs(t, store.Insert(ctx, account), storage.ErrDuplicateKey)

	retrieved, err := store.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.PasswordHash, retrieved.PasswordHash)
	assert.Equal(t, account.Salt, retrieved.Salt)

	_, err = store.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	accounts := NewAdminAccountStore(pool)
	sessions := NewSessionStore(pool)
	ctx := context.Background()

	require.NoError(t, accounts.Insert(ctx, &domain.AdminAccount{
		Email:        "admin@example.com",
		PasswordHash: "deadbeef",
		Salt:         "cafe",
		CreatedAt:    1700000000000,
	}))

	session := &domain.Session{
		Token:     "token-abc",
		Email:     "admin@example.com",
		ExpiresAt: 1700000100000,
	}
	require.NoError(t, sessions.Insert(ctx, session))

	retrieved, err := sessions.GetByToken(ctx, "token-abc")
	require.NoError(t, err)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.ExpiresAt, retrieved.ExpiresAt)

	require.NoError(t, sessions.Delete(ctx, "token-abc"))
	_, err = sessions.GetByToken(ctx, "token-abc")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, sessions.Delete(ctx, "token-abc"), storage.ErrNotFound)
}

func TestSessionStore_DeleteExpired(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	accounts := NewAdminAccountStore(pool)
	sessions := NewSessionStore(pool)
	ctx := context.Background()

	require.NoError(t, accounts.Insert(ctx, &domain.AdminAccount{
		Email:        "admin@example.com",
		PasswordHash: "deadbeef",
		Salt:         "cafe",
		CreatedAt:    1700000000000,
	}))

	require.NoError(t, sessions.Insert(ctx, &domain.Session{
		Token: "expired", Email: "admin@example.com", ExpiresAt: 1000,
	}))
	require.NoError(t, sessions.Insert(ctx, &domain.Session{
		Token: "live", Email: "admin@example.com", ExpiresAt: 3000,
	}))

	deleted, err := sessions.DeleteExpired(ctx, 2000)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = sessions.GetByToken(ctx, "expired")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
}
