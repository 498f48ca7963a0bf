package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"week-planner/internal/live"
	"week-planner/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db  *gorm.DB
	bus *live.Bus
}

func NewCategoryRepository(db *gorm.DB, bus *live.Bus) *CategoryRepository {
	return &CategoryRepository{db: db, bus: bus}
}

// List returns all categories in display order.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Observe streams the category list, re-emitted after every change.
func (r *CategoryRepository) Observe(ctx context.Context) (<-chan []model.Category, error) {
	return live.Observe(ctx, r.bus, r.List, live.Categories)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// MaxSortOrder returns the largest sort order in use, or 0 with ok=false
// when there are no categories.
func (r *CategoryRepository) MaxSortOrder(ctx context.Context) (order int, ok bool, err error) {
	var value sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Select("MAX(sort_order)").Scan(&value).Error; err != nil {
		return 0, false, fmt.Errorf("max sort order: %w", err)
	}
	if !value.Valid {
		return 0, false, nil
	}
	return int(value.Int64), true, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Omit("Tasks").Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	r.bus.Publish(live.Categories)
	return nil
}

// Update stores name and sort order of an existing category.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", category.ID).Updates(map[string]interface{}{
		"name":       category.Name,
		"sort_order": category.SortOrder,
	})
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update category %d: %w", category.ID, ErrNotFound)
	}
	r.bus.Publish(live.Categories)
	return nil
}

// UpdateOrder persists the sort order of every given category in one transaction.
func (r *CategoryRepository) UpdateOrder(ctx context.Context, categories []model.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, category := range categories {
			if err := tx.Model(&model.Category{}).Where("id = ?", category.ID).
				Update("sort_order", category.SortOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update category order: %w", err)
	}
	r.bus.Publish(live.Categories)
	return nil
}

// Delete removes a category together with all of its tasks.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	r.bus.Publish(live.Categories, live.Tasks)
	return nil
}
