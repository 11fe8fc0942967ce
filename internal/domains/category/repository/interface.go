package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/category/model"
)

type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
