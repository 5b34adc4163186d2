package task

import "context"

// UpdateFields marks which task fields an update carries. Nil means absent.
// Presence is explicit so a deliberately empty SharedWith list can clear all
// shares, which falsy-value checks would silently drop.
type UpdateFields struct {
	Title       *string
	Description *string
	Status      *Status
	SharedWith  *[]string
}

// Store is the persistence boundary for tasks. Implementations assign the ID
// on Create and perform Update as a single atomic write. Not-found conditions
// are reported as sentinel.ErrNotFound, translation to domain errors happens
// in the service.
type Store interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	ListForEmail(ctx context.Context, email string) ([]*Task, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Task, error)
	Delete(ctx context.Context, id string) error
}
