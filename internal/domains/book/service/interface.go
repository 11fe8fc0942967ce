package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// ServiceInterface is the book business contract.
type ServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	List(ctx context.Context, limit, offset int) ([]model.Book, int, error)
	Search(ctx context.Context, query model.SearchQuery, limit, offset int) ([]model.Book, int, error)
	Create(ctx context.Context, req model.BookRequest) (*model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req model.BookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, change int) (*model.Book, error)
}
