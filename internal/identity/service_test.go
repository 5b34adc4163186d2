package identity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"taskshare/internal/identity"
	"taskshare/internal/identity/session"
	dErrors "taskshare/pkg/domain-errors"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type IdentityServiceSuite struct {
	suite.Suite
	service *identity.Service
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = identity.NewService(
		identity.NewInMemoryUserStore(),
		session.NewInMemoryStore(),
		identity.NewTokenService("test-key", "taskshare", "taskshare-api"),
		nil,
		time.Hour,
		logger,
	)
}

func (s *IdentityServiceSuite) TestSignUpDerivesDisplayName() {
	user, err := s.service.SignUp(context.Background(), "jane.doe@example.com", "hunter22", "")
	s.Require().NoError(err)

	s.Equal("Jane Doe", user.DisplayName)
	s.NotEmpty(user.ID)
}

func (s *IdentityServiceSuite) TestSignUpRequiresCredentials() {
	_, err := s.service.SignUp(context.Background(), "", "hunter22", "")
	s.Require().Error(err)
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))

	_, err = s.service.SignUp(context.Background(), "jane@example.com", "", "")
	s.Require().Error(err)
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func (s *IdentityServiceSuite) TestSignUpRejectsDuplicateEmail() {
	ctx := context.Background()
	_, err := s.service.SignUp(ctx, "jane@example.com", "hunter22", "")
	s.Require().NoError(err)

	_, err = s.service.SignUp(ctx, "jane@example.com", "other-password", "")
	s.Require().Error(err)
	s.Equal("Email already registered", dErrors.Message(err))
}

func (s *IdentityServiceSuite) TestSignInIssuesWorkingToken() {
	ctx := context.Background()
	_, err := s.service.SignUp(ctx, "jane@example.com", "hunter22", "Jane")
	s.Require().NoError(err)

	token, user, err := s.service.SignInPassword(ctx, "jane@example.com", "hunter22", chromeUA)
	s.Require().NoError(err)
	s.Equal("Jane", user.DisplayName)

	claims, err := s.service.Validator().ValidateToken(token)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
	s.Equal("jane@example.com", claims.Email)
}

func (s *IdentityServiceSuite) TestSignInWrongPassword() {
	ctx := context.Background()
	_, err := s.service.SignUp(ctx, "jane@example.com", "hunter22", "")
	s.Require().NoError(err)

	_, _, err = s.service.SignInPassword(ctx, "jane@example.com", "wrong", chromeUA)
	s.Require().Error(err)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	s.Equal("Invalid email or password", dErrors.Message(err))
}

func (s *IdentityServiceSuite) TestSignInUnknownEmailSameError() {
	_, _, err := s.service.SignInPassword(context.Background(), "nobody@example.com", "whatever", chromeUA)
	s.Require().Error(err)
	s.Equal("Invalid email or password", dErrors.Message(err))
}

func (s *IdentityServiceSuite) TestSignOutRevokesOutstandingToken() {
	ctx := context.Background()
	_, err := s.service.SignUp(ctx, "jane@example.com", "hunter22", "")
	s.Require().NoError(err)

	token, _, err := s.service.SignInPassword(ctx, "jane@example.com", "hunter22", chromeUA)
	s.Require().NoError(err)

	claims, err := s.service.Validator().ValidateToken(token)
	s.Require().NoError(err)

	s.Require().NoError(s.service.SignOut(ctx, claims.SessionID))

	_, err = s.service.Validator().ValidateToken(token)
	s.Require().Error(err)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func (s *IdentityServiceSuite) TestCurrentUserUnknownID() {
	_, err := s.service.CurrentUser(context.Background(), "no-such-user")
	s.Require().Error(err)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func (s *IdentityServiceSuite) TestFederatedStartWithoutProvider() {
	_, _, err := s.service.FederatedStart(context.Background())
	s.Require().Error(err)
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
}
