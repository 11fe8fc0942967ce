package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"library-backend/internal/config"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	categorymodel "library-backend/internal/domains/category/model"
	categoryservice "library-backend/internal/domains/category/service"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const bookCachePrefix = "books:"

type bookService struct {
	repo       repository.RepositoryInterface
	categories categoryservice.ServiceInterface
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewBookService(
	repo repository.RepositoryInterface,
	categories categoryservice.ServiceInterface,
	cacheClient cache.Cache,
	cacheConfig config.CacheConfig,
) ServiceInterface {
	return &bookService{
		repo:       repo,
		categories: categories,
		cache:      cacheClient,
		cacheTTL:   time.Duration(cacheConfig.BookTTLSeconds) * time.Second,
	}
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCachePrefix + "id:" + id.String()

	var cached model.Book
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("book cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return &cached, nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrBookNotFound) {
		return nil, model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, book, s.cacheTTL); err != nil {
		logger.Warn("book cache write failed", map[string]interface{}{"error": err.Error()})
	}

	return book, nil
}

func (s *bookService) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	book, err := s.repo.GetByISBN(ctx, isbn)
	if errors.Is(err, model.ErrBookNotFound) {
		return nil, model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// bookPage carries a list page and its total through the cache as one value.
type bookPage struct {
	Books []model.Book `json:"books"`
	Total int          `json:"total"`
}

func (s *bookService) List(ctx context.Context, limit, offset int) ([]model.Book, int, error) {
	cacheKey := fmt.Sprintf("%slist:%d:%d", bookCachePrefix, limit, offset)

	var cached bookPage
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("book cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return cached.Books, cached.Total, nil
	}

	books, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if err := s.cache.Set(ctx, cacheKey, bookPage{Books: books, Total: total}, s.cacheTTL); err != nil {
		logger.Warn("book cache write failed", map[string]interface{}{"error": err.Error()})
	}

	return books, total, nil
}

func (s *bookService) Search(ctx context.Context, query model.SearchQuery, limit, offset int) ([]model.Book, int, error) {
	if query.Empty() {
		return s.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, query, limit, offset)
}

func (s *bookService) Create(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewBookError(model.ErrCodeInvalidRequest, "Invalid book request", err)
	}

	if err := s.checkISBNFree(ctx, req.ISBN, uuid.Nil); err != nil {
		return nil, err
	}

	categoryIDs, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:              uuid.New(),
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Quantity:        req.Quantity,
		Publisher:       req.Publisher,
		Language:        req.Language,
		Pages:           req.Pages,
		Description:     req.Description,
		Categories:      pq.StringArray(req.Categories),
	}

	if err := s.repo.Create(ctx, book, categoryIDs); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	logger.Info("book created", map[string]interface{}{
		"book_id": book.ID,
		"isbn":    book.ISBN,
	})

	return book, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.BookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewBookError(model.ErrCodeInvalidRequest, "Invalid book request", err)
	}

	book, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrBookNotFound) {
		return nil, model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
	}
	if err != nil {
		return nil, err
	}

	if req.ISBN != book.ISBN {
		if err := s.checkISBNFree(ctx, req.ISBN, id); err != nil {
			return nil, err
		}
	}

	categoryIDs, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	book.Title = req.Title
	book.Author = req.Author
	book.ISBN = req.ISBN
	book.PublicationYear = req.PublicationYear
	book.Quantity = req.Quantity
	book.Publisher = req.Publisher
	book.Language = req.Language
	book.Pages = req.Pages
	book.Description = req.Description
	book.Categories = pq.StringArray(req.Categories)

	if err := s.repo.Update(ctx, book, categoryIDs); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
		}
		return nil, err
	}

	s.invalidate(ctx)

	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
		}
		return err
	}

	s.invalidate(ctx)

	logger.Info("book deleted", map[string]interface{}{"book_id": id})

	return nil
}

func (s *bookService) AdjustQuantity(ctx context.Context, id uuid.UUID, change int) (*model.Book, error) {
	if err := s.repo.AdjustQuantity(ctx, id, change); err != nil {
		switch {
		case errors.Is(err, model.ErrBookNotFound):
			return nil, model.NewBookError(model.ErrCodeBookNotFound, "Book not found", err)
		case errors.Is(err, model.ErrNegativeQuantity):
			return nil, model.NewBookError(model.ErrCodeNegativeQuantity,
				fmt.Sprintf("Change of %d would make the quantity negative", change), err)
		default:
			return nil, err
		}
	}

	s.invalidate(ctx)

	return s.GetByID(ctx, id)
}

func (s *bookService) checkISBNFree(ctx context.Context, isbn string, selfID uuid.UUID) error {
	existing, err := s.repo.GetByISBN(ctx, isbn)
	if errors.Is(err, model.ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return model.NewBookError(model.ErrCodeISBNTaken, "ISBN is already in use", model.ErrISBNTaken)
	}
	return nil
}

// resolveCategories maps category names to ids, creating missing ones.
func (s *bookService) resolveCategories(ctx context.Context, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		cat, err := s.categories.GetOrCreate(ctx, categorymodel.CategoryRequest{Name: name})
		if err != nil {
			return nil, err
		}
		ids = append(ids, cat.ID)
	}
	return ids, nil
}

func (s *bookService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bookCachePrefix+"*"); err != nil {
		logger.Warn("book cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
