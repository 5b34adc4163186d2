//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"taskshare/internal/identity/models"
	"taskshare/internal/identity/session"
	"taskshare/pkg/platform/sentinel"
	"taskshare/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:                uuid.NewString(),
		UserID:            uuid.NewString(),
		Email:             "alice@example.com",
		DeviceDisplayName: "Chrome on Linux",
		CreatedAt:         now,
		ExpiresAt:         now.Add(ttl),
	}
}

func (s *RedisStoreSuite) TestSaveAndGetRoundtrip() {
	ctx := context.Background()
	sess := makeSession(time.Hour)

	s.Require().NoError(s.store.Save(ctx, sess))

	got, err := s.store.Get(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.UserID, got.UserID)
	s.Equal(sess.Email, got.Email)
	s.Equal(sess.DeviceDisplayName, got.DeviceDisplayName)
}

func (s *RedisStoreSuite) TestSaveRejectsAlreadyExpired() {
	err := s.store.Save(context.Background(), makeSession(-time.Minute))
	s.ErrorIs(err, sentinel.ErrExpired)
}

func (s *RedisStoreSuite) TestExpiredSessionIsGone() {
	ctx := context.Background()
	sess := makeSession(time.Second)
	s.Require().NoError(s.store.Save(ctx, sess))

	time.Sleep(1500 * time.Millisecond)

	_, err := s.store.Get(ctx, sess.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestDeleteRevokes() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Save(ctx, sess))

	s.Require().NoError(s.store.Delete(ctx, sess.ID))

	_, err := s.store.Get(ctx, sess.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
