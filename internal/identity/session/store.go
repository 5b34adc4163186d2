// Package session stores signed-in sessions. The redis implementation is the
// production path so multiple instances share revocation state; the memory
// implementation backs tests and single-node dev runs.
package session

import (
	"context"

	"taskshare/internal/identity/models"
)

type Store interface {
	Save(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
