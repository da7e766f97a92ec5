// Package repository declares the persistence contracts the service layer
// depends on. Implementations live in sub-packages (see repository/sqlite).
package repository

import (
	"context"

	"github.com/sakif/account-service/internal/model"
)

// UserRepository is the generic create/find/delete surface over the user
// collection.
//
// Contract for implementations:
//   - Create assigns ID and timestamps, and returns apperror.ErrConflict when
//     the email is already taken (enforced by the store, not by a prior read).
//   - GetByID, GetByEmail and Delete return apperror.ErrNotFound when no row matches.
//   - Email arguments are expected to be normalized already.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}
