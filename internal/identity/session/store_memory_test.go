package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/identity/models"
	"taskshare/internal/identity/session"
	"taskshare/pkg/platform/sentinel"
)

func newSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Email:     "alice@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestInMemorySessionRoundtrip(t *testing.T) {
	store := session.NewInMemoryStore()
	ctx := context.Background()

	sess := newSession(time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Email, got.Email)
}

func TestInMemorySessionExpiry(t *testing.T) {
	store := session.NewInMemoryStore()
	ctx := context.Background()

	sess := newSession(-time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, sentinel.ErrExpired)
}

func TestInMemorySessionDelete(t *testing.T) {
	store := session.NewInMemoryStore()
	ctx := context.Background()

	sess := newSession(time.Hour)
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
