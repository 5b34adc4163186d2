package testutil

import (
	"context"
	"net/http"

	"taskshare/internal/platform/middleware"
)

// WithAuth stamps a request with the context values the auth middleware would
// set for an authenticated caller. Empty values are skipped.
func WithAuth(req *http.Request, userID, sessionID, email string) *http.Request {
	ctx := req.Context()
	if userID != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeySessionID, sessionID)
	}
	if email != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyEmail, email)
	}
	return req.WithContext(ctx)
}

// WithEmail stamps a request as authenticated for the given email only.
func WithEmail(req *http.Request, email string) *http.Request {
	return WithAuth(req, "", "", email)
}
