package service

import (
	"context"
	"fmt"
	"strings"

	"week-planner/internal/model"
	"week-planner/internal/repository"
)

// CategoryService provides category commands and queries.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Add appends a category after the last one. A blank name is ignored and
// yields a nil category with a nil error.
func (s *CategoryService) Add(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	last, _, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, err
	}
	category := model.Category{Name: name, SortOrder: last + 1}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Rename changes the name of a category; a blank name is ignored.
func (s *CategoryService) Rename(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	category.Name = name
	return s.repo.Update(ctx, category)
}

// Delete removes the category and every task in it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// Reorder assigns sort orders 0..n-1 following the given order and stores
// them as one batch.
func (s *CategoryService) Reorder(ctx context.Context, ordered []model.Category) ([]model.Category, error) {
	updated := make([]model.Category, len(ordered))
	for i, category := range ordered {
		category.SortOrder = i
		updated[i] = category
	}
	if err := s.repo.UpdateOrder(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ReorderByID is Reorder for callers that only hold ids.
func (s *CategoryService) ReorderByID(ctx context.Context, ids []uint) ([]model.Category, error) {
	ordered := make([]model.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("reorder category %d: %w", id, err)
		}
		ordered = append(ordered, *category)
	}
	return s.Reorder(ctx, ordered)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

// Watch streams the category list in display order.
func (s *CategoryService) Watch(ctx context.Context) (<-chan []model.Category, error) {
	return s.repo.Observe(ctx)
}
