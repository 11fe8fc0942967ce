package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

// RepositoryInterface is the user storage contract.
type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
