package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"week-planner/internal/live"
	"week-planner/internal/model"
)

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db  *gorm.DB
	bus *live.Bus
}

func NewTaskRepository(db *gorm.DB, bus *live.Bus) *TaskRepository {
	return &TaskRepository{db: db, bus: bus}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	r.bus.Publish(live.Tasks)
	return nil
}

// List returns incomplete tasks first, newest first within each group.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("is_completed ASC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Observe streams the ordered task list, re-emitted after every change.
func (r *TaskRepository) Observe(ctx context.Context) (<-chan []model.Task, error) {
	return live.Observe(ctx, r.bus, r.List, live.Tasks)
}

// ListInRange returns tasks whose date lies in [startMillis, endMillis).
func (r *TaskRepository) ListInRange(ctx context.Context, startMillis, endMillis int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("date >= ? AND date < ?", startMillis, endMillis).
		Order("date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks in range: %w", err)
	}
	return tasks, nil
}

// ObserveInRange streams ListInRange, re-emitted after every task change.
func (r *TaskRepository) ObserveInRange(ctx context.Context, startMillis, endMillis int64) (<-chan []model.Task, error) {
	load := func(ctx context.Context) ([]model.Task, error) {
		return r.ListInRange(ctx, startMillis, endMillis)
	}
	return live.Observe(ctx, r.bus, load, live.Tasks)
}

// ListWeekTasks returns the week tasks stored on the given week start.
func (r *TaskRepository) ListWeekTasks(ctx context.Context, weekStartMillis int64) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("is_week_task = ? AND date = ?", true, weekStartMillis).
		Order("is_completed ASC, id DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list week tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update stores every mutable field of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
		"title":        task.Title,
		"is_completed": task.IsCompleted,
		"date":         task.Date,
		"category_id":  task.CategoryID,
		"is_week_task": task.IsWeekTask,
	})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update task %d: %w", task.ID, ErrNotFound)
	}
	r.bus.Publish(live.Tasks)
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, taskID).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	r.bus.Publish(live.Tasks)
	return nil
}

// DeleteByCategory removes every task of the category and returns how many were removed.
func (r *TaskRepository) DeleteByCategory(ctx context.Context, categoryID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete category tasks: %w", res.Error)
	}
	r.bus.Publish(live.Tasks)
	return res.RowsAffected, nil
}

// DeleteGeneral removes every task without a category.
func (r *TaskRepository) DeleteGeneral(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("category_id IS NULL").Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete general tasks: %w", res.Error)
	}
	r.bus.Publish(live.Tasks)
	return res.RowsAffected, nil
}
