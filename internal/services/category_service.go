package services

import (
	"context"

	"xpense/internal/core"
	"xpense/internal/storage"
)

type CategoryService struct {
	storage *storage.SQLiteRepository
}

func NewCategoryService(storage *storage.SQLiteRepository) *CategoryService {
	return &CategoryService{storage: storage}
}

func (s *CategoryService) Create(ctx context.Context, userID int64, input core.CategoryInput) (*core.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	category := &core.Category{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
	}
	if err := s.storage.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, userID int64, id string) (*core.Category, error) {
	return s.storage.GetCategory(ctx, userID, id)
}

func (s *CategoryService) Update(ctx context.Context, userID int64, id string, patch core.CategoryPatch) (*core.Category, error) {
	category, err := s.storage.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(category); err != nil {
		return nil, err
	}
	if err := s.storage.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID int64, id string) error {
	return s.storage.SoftDeleteCategory(ctx, userID, id)
}

func (s *CategoryService) List(ctx context.Context, userID int64, active bool, skip, limit int) ([]core.Category, int64, error) {
	return s.storage.ListCategories(ctx, userID, active, skip, limit)
}
