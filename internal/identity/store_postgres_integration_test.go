//go:build integration

package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"taskshare/internal/identity"
	"taskshare/internal/identity/models"
	"taskshare/pkg/platform/sentinel"
	"taskshare/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *identity.PostgresUserStore
}

func TestPostgresUserStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = identity.NewPostgresUserStore(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users"))
}

func (s *PostgresUserStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        "Jane.Doe@Example.com",
		DisplayName:  "Jane Doe",
		PasswordHash: []byte("hash"),
	}
	s.Require().NoError(s.store.Save(ctx, user))

	// Lookup is case-insensitive; the stored email is lowercased.
	found, err := s.store.FindByEmail(ctx, "jane.doe@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)
	s.Equal("jane.doe@example.com", found.Email)

	byID, err := s.store.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(found.Email, byID.Email)
}

func (s *PostgresUserStoreSuite) TestUpsertKeepsPasswordWhenAbsent() {
	ctx := context.Background()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        "jane@example.com",
		DisplayName:  "Jane",
		PasswordHash: []byte("hash"),
	}
	s.Require().NoError(s.store.Save(ctx, user))

	// A federated re-save carries no password hash.
	s.Require().NoError(s.store.Save(ctx, &models.User{
		ID:          uuid.NewString(),
		Email:       "jane@example.com",
		DisplayName: "Jane D",
	}))

	found, err := s.store.FindByEmail(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.Equal("Jane D", found.DisplayName)
	s.Equal([]byte("hash"), found.PasswordHash)
}

func (s *PostgresUserStoreSuite) TestFindMissingUser() {
	_, err := s.store.FindByEmail(context.Background(), "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
