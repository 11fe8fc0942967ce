package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface is the book storage contract. Create and Update
// replace the category links atomically with the row itself.
type RepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	List(ctx context.Context, limit, offset int) ([]model.Book, int, error)
	Search(ctx context.Context, query model.SearchQuery, limit, offset int) ([]model.Book, int, error)
	Create(ctx context.Context, book *model.Book, categoryIDs []uuid.UUID) error
	Update(ctx context.Context, book *model.Book, categoryIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustQuantity applies a signed delta, refusing any change that
	// would leave the quantity negative.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
}
