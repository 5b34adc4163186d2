package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"taskshare/internal/identity/models"
	"taskshare/internal/identity/session"
	dErrors "taskshare/pkg/domain-errors"
	"taskshare/pkg/email"
	"taskshare/pkg/platform/sentinel"
)

// Service wraps the identity provider surface the clients consume: password
// and federated sign-in, the current identity, and sign-out. Identity is
// always returned to callers explicitly; nothing here holds a "current user".
type Service struct {
	users     UserStore
	sessions  session.Store
	tokens    *TokenService
	federated *FederatedProvider
	tokenTTL  time.Duration
	logger    *slog.Logger

	// Pending PKCE verifiers for in-flight federated sign-ins, keyed by
	// state. Single-instance only; a multi-instance deployment would keep
	// these in the session store.
	mu        sync.Mutex
	verifiers map[string]pendingVerifier
}

type pendingVerifier struct {
	verifier string
	expires  time.Time
}

func NewService(
	users UserStore,
	sessions session.Store,
	tokens *TokenService,
	federated *FederatedProvider,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		tokens:    tokens,
		federated: federated,
		tokenTTL:  tokenTTL,
		logger:    logger,
		verifiers: make(map[string]pendingVerifier),
	}
}

// SignUp registers a password account. The display name defaults to one
// derived from the email's local part.
func (s *Service) SignUp(ctx context.Context, emailAddr, password, displayName string) (*models.User, error) {
	if emailAddr == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Email and password are required")
	}
	if _, err := s.users.FindByEmail(ctx, emailAddr); err == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Email already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.internal(ctx, "lookup user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, s.internal(ctx, "hash password", err)
	}
	if displayName == "" {
		displayName = email.DeriveDisplayName(emailAddr)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, s.internal(ctx, "save user", err)
	}
	return user, nil
}

// SignInPassword authenticates a password account and opens a session.
func (s *Service) SignInPassword(ctx context.Context, emailAddr, password, userAgent string) (string, *models.User, error) {
	if emailAddr == "" || password == "" {
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password")
		}
		return "", nil, s.internal(ctx, "lookup user", err)
	}
	if len(user.PasswordHash) == 0 {
		// Federated-only account; no password to check.
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password")
	}

	return s.openSession(ctx, user, userAgent)
}

// FederatedStart returns the provider URL to send the browser to. The
// returned state ties the eventual callback to this attempt.
func (s *Service) FederatedStart(_ context.Context) (authURL, state string, err error) {
	if s.federated == nil {
		return "", "", dErrors.New(dErrors.CodeBadRequest, "Federated sign-in is not configured")
	}
	state = uuid.NewString()
	verifier := s.federated.GenerateVerifier()

	s.mu.Lock()
	s.verifiers[state] = pendingVerifier{verifier: verifier, expires: time.Now().Add(10 * time.Minute)}
	s.mu.Unlock()

	return s.federated.AuthCodeURL(state, verifier), state, nil
}

// FederatedCallback completes the flow: code for identity, then a session.
// Accounts are created on first sign-in.
func (s *Service) FederatedCallback(ctx context.Context, state, code, userAgent string) (string, *models.User, error) {
	if s.federated == nil {
		return "", nil, dErrors.New(dErrors.CodeBadRequest, "Federated sign-in is not configured")
	}
	verifier, ok := s.takeVerifier(state)
	if !ok {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Unknown or expired sign-in attempt")
	}

	ident, err := s.federated.Exchange(ctx, code, verifier)
	if err != nil {
		s.logger.WarnContext(ctx, "federated exchange failed", "error", err.Error())
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Federated sign-in failed")
	}

	user, err := s.users.FindByEmail(ctx, ident.Email)
	if errors.Is(err, sentinel.ErrNotFound) {
		displayName := ident.Name
		if displayName == "" {
			displayName = email.DeriveDisplayName(ident.Email)
		}
		user = &models.User{
			ID:          uuid.NewString(),
			Email:       ident.Email,
			DisplayName: displayName,
		}
		if err := s.users.Save(ctx, user); err != nil {
			return "", nil, s.internal(ctx, "save user", err)
		}
	} else if err != nil {
		return "", nil, s.internal(ctx, "lookup user", err)
	}

	return s.openSession(ctx, user, userAgent)
}

// CurrentUser resolves the authenticated user id to its account.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Unknown user")
		}
		return nil, s.internal(ctx, "lookup user", err)
	}
	return user, nil
}

// SignOut revokes the session; outstanding tokens for it stop validating.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return s.internal(ctx, "delete session", err)
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user *models.User, userAgent string) (string, *models.User, error) {
	now := time.Now()
	sess := &models.Session{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		Email:             user.Email,
		DeviceDisplayName: deviceDisplayName(userAgent),
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.tokenTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, s.internal(ctx, "save session", err)
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, sess.ID, user.Email, s.tokenTTL)
	if err != nil {
		return "", nil, s.internal(ctx, "sign token", err)
	}
	return token, user, nil
}

// sessionAlive confirms the session behind a token still exists.
func (s *Service) sessionAlive(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return dErrors.New(dErrors.CodeUnauthorized, "session revoked or expired")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "Internal Server Error", err)
	}
	return nil
}

func (s *Service) takeVerifier(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, ok := s.verifiers[state]
	delete(s.verifiers, state)
	if !ok || time.Now().After(pending.expires) {
		return "", false
	}
	return pending.verifier, true
}

// deviceDisplayName renders "Chrome on Linux" style labels for sessions.
func deviceDisplayName(uaString string) string {
	if uaString == "" {
		return ""
	}
	ua := useragent.New(uaString)
	browser, _ := ua.Browser()
	if browser == "" {
		return ""
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s on %s", browser, os)
	}
	return browser
}

func (s *Service) internal(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "identity failure",
		"op", op,
		"error", err.Error(),
	)
	return dErrors.Wrap(dErrors.CodeInternal, "Internal Server Error", err)
}
