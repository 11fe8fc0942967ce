package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/domains/category/service"
)

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*model.Category)}
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	cat, ok := r.categories[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	copied := *cat
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, cat := range r.categories {
		if cat.Name == name {
			copied := *cat
			return &copied, nil
		}
	}
	return nil, model.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var cats []model.Category
	for _, cat := range r.categories {
		cats = append(cats, *cat)
	}
	return cats, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, cat *model.Category) error {
	copied := *cat
	r.categories[cat.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, cat *model.Category) error {
	if _, ok := r.categories[cat.ID]; !ok {
		return model.ErrCategoryNotFound
	}
	copied := *cat
	r.categories[cat.ID] = &copied
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func requireCategoryCode(t *testing.T, err error, code string) {
	t.Helper()
	var catErr *model.CategoryError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, code, catErr.Code)
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCategoryService(newFakeCategoryRepo())

	cat, err := svc.Create(ctx, model.CategoryRequest{Name: "Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "Fiction", cat.Name)

	_, err = svc.Create(ctx, model.CategoryRequest{Name: "Fiction"})
	requireCategoryCode(t, err, model.ErrCodeNameTaken)
}

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCategoryService(newFakeCategoryRepo())

	first, err := svc.GetOrCreate(ctx, model.CategoryRequest{Name: "History"})
	require.NoError(t, err)

	second, err := svc.GetOrCreate(ctx, model.CategoryRequest{Name: "History"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same name must resolve to the same category")
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCategoryService(newFakeCategoryRepo())

	fiction, err := svc.Create(ctx, model.CategoryRequest{Name: "Fiction"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.CategoryRequest{Name: "History"})
	require.NoError(t, err)

	t.Run("rename to a free name", func(t *testing.T) {
		updated, err := svc.Update(ctx, fiction.ID, model.CategoryRequest{Name: "Literary Fiction"})
		require.NoError(t, err)
		assert.Equal(t, "Literary Fiction", updated.Name)
	})

	t.Run("rename to a taken name", func(t *testing.T) {
		_, err := svc.Update(ctx, fiction.ID, model.CategoryRequest{Name: "History"})
		requireCategoryCode(t, err, model.ErrCodeNameTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, uuid.New(), model.CategoryRequest{Name: "Anything"})
		requireCategoryCode(t, err, model.ErrCodeCategoryNotFound)
	})
}
