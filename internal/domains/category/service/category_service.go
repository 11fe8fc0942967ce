package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/domains/category/repository"
)

type ServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	// GetOrCreate returns the category named in req, creating it if absent.
	GetOrCreate(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.RepositoryInterface
}

func NewCategoryService(repo repository.RepositoryInterface) ServiceInterface {
	return &categoryService{repo: repo}
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, model.ErrCategoryNotFound) {
		return nil, model.NewCategoryError(model.ErrCodeCategoryNotFound, "Category not found", err)
	}
	return cat, err
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCategoryError(model.ErrCodeInvalidRequest, "Invalid category request", err)
	}

	_, err := s.repo.GetByName(ctx, req.Name)
	if err == nil {
		return nil, model.NewCategoryError(model.ErrCodeNameTaken, "Category name is already in use", model.ErrNameTaken)
	}
	if !errors.Is(err, model.ErrCategoryNotFound) {
		return nil, err
	}

	cat := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) GetOrCreate(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCategoryError(model.ErrCodeInvalidRequest, "Invalid category request", err)
	}

	cat, err := s.repo.GetByName(ctx, req.Name)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, model.ErrCategoryNotFound) {
		return nil, err
	}

	cat = &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewCategoryError(model.ErrCodeInvalidRequest, "Invalid category request", err)
	}

	cat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != cat.Name {
		if _, err := s.repo.GetByName(ctx, req.Name); err == nil {
			return nil, model.NewCategoryError(model.ErrCodeNameTaken, "Category name is already in use", model.ErrNameTaken)
		} else if !errors.Is(err, model.ErrCategoryNotFound) {
			return nil, err
		}
	}

	cat.Name = req.Name
	cat.Description = req.Description

	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, model.ErrCategoryNotFound) {
		return model.NewCategoryError(model.ErrCodeCategoryNotFound, "Category not found", err)
	}
	return err
}
