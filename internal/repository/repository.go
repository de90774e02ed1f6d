// Package repository defines the storage interfaces consumed by the service
// layer. Implementations live in sub-packages (mongodb); services only ever
// see these interfaces.
package repository

import (
	"context"

	"github.com/nafisa/campgrounds/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository is the credential store.
//
// Implementations return apperror.ErrNotFound (wrapped) when a lookup finds
// no document, and apperror.ErrUsernameTaken when Create hits the unique
// username index. Any other failure wraps apperror.ErrStorage.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByFacebookID(ctx context.Context, facebookID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// CampsiteRepository stores campsite documents, comments included.
// Comment mutations go through Update on the whole aggregate: load the
// campsite, mutate the copy, persist it back.
type CampsiteRepository interface {
	List(ctx context.Context, opts ListOptions) ([]model.Campsite, error)
	GetByID(ctx context.Context, id string) (*model.Campsite, error)
	Create(ctx context.Context, campsite *model.Campsite) error
	Update(ctx context.Context, campsite *model.Campsite) error
	Delete(ctx context.Context, id string) error
}
