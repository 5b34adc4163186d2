package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskshare/internal/identity/models"
	"taskshare/internal/platform/middleware"
	"taskshare/internal/transport/http/shared"
	dErrors "taskshare/pkg/domain-errors"
)

// Service defines the identity operations the transport consumes.
type Service interface {
	SignUp(ctx context.Context, email, password, displayName string) (*models.User, error)
	SignInPassword(ctx context.Context, email, password, userAgent string) (string, *models.User, error)
	FederatedStart(ctx context.Context) (authURL, state string, err error)
	FederatedCallback(ctx context.Context, state, code, userAgent string) (string, *models.User, error)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
	SignOut(ctx context.Context, sessionID string) error
}

// Handler handles the /auth endpoints.
type Handler struct {
	logger    *slog.Logger
	identity  Service
	validator middleware.TokenValidator
}

func New(identity Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		identity:  identity,
		validator: validator,
	}
}

// Register mounts the auth routes. /auth/me and /auth/logout require a valid
// bearer token; the sign-in surfaces are anonymous by nature.
func (h *Handler) Register(r chi.Router) {
	authRouter := chi.NewRouter()
	authRouter.Use(middleware.Timeout(30 * time.Second))
	authRouter.Use(middleware.ContentTypeJSON)

	authRouter.Post("/signup", h.handleSignUp)
	authRouter.Post("/login", h.handleLogin)
	authRouter.Get("/federated/start", h.handleFederatedStart)
	authRouter.Get("/federated/callback", h.handleFederatedCallback)

	authRouter.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(h.validator, h.logger))
		pr.Get("/me", h.handleMe)
		pr.Post("/logout", h.handleLogout)
	})

	r.Mount("/auth", authRouter)
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type userResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	user, err := h.identity.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.logFailure(ctx, "sign up", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, userResponse{
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return
	}

	token, user, err := h.identity.SignInPassword(ctx, req.Email, req.Password, r.UserAgent())
	if err != nil {
		h.logFailure(ctx, "password sign-in", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userResponse{Email: user.Email, DisplayName: user.DisplayName},
	})
}

func (h *Handler) handleFederatedStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	authURL, state, err := h.identity.FederatedStart(ctx)
	if err != nil {
		h.logFailure(ctx, "federated start", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"authUrl": authURL,
		"state":   state,
	})
}

func (h *Handler) handleFederatedCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	token, user, err := h.identity.FederatedCallback(ctx, q.Get("state"), q.Get("code"), r.UserAgent())
	if err != nil {
		h.logFailure(ctx, "federated callback", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userResponse{Email: user.Email, DisplayName: user.DisplayName},
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		// Unreachable with RequireAuth configured; belt and braces.
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	user, err := h.identity.CurrentUser(ctx, userID)
	if err != nil {
		h.logFailure(ctx, "current user", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, userResponse{
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.identity.SignOut(ctx, middleware.GetSessionID(ctx)); err != nil {
		h.logFailure(ctx, "sign out", err)
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, op+" rejected",
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
