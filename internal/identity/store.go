package identity

import (
	"context"

	"taskshare/internal/identity/models"
)

// UserStore is the persistence boundary for accounts. Not-found conditions
// are reported as sentinel.ErrNotFound.
type UserStore interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
