package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"week-planner/internal/live"
	"week-planner/internal/model"
	"week-planner/internal/repository"
	"week-planner/internal/week"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title      string
	Date       *time.Time
	CategoryID *uint
	IsWeekTask bool
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo *repository.TaskRepository
	bus      *live.Bus
	loc      *time.Location
}

// NewTaskService builds a TaskService that aligns days and weeks in loc.
func NewTaskService(taskRepo *repository.TaskRepository, bus *live.Bus, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{taskRepo: taskRepo, bus: bus, loc: loc}
}

// Location returns the location used for day and week boundaries.
func (s *TaskService) Location() *time.Location {
	return s.loc
}

// Add creates a task. A blank title is ignored and yields a nil task with a
// nil error. Week tasks have their date moved to Monday 00:00 of its week;
// other dates are stored unchanged.
func (s *TaskService) Add(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, nil
	}

	task := model.Task{
		Title:      title,
		CategoryID: input.CategoryID,
		IsWeekTask: input.IsWeekTask,
	}
	if input.Date != nil {
		date := input.Date.In(s.loc)
		if input.IsWeekTask {
			date = week.StartOfWeek(date)
		}
		ms := week.ToMillis(date)
		task.Date = &ms
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID)
}

// Toggle flips the completion flag of the stored task.
func (s *TaskService) Toggle(ctx context.Context, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	task.IsCompleted = !task.IsCompleted
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Rename changes the title of a task; a blank title is ignored.
func (s *TaskService) Rename(ctx context.Context, taskID uint, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("rename task: %w", err)
	}
	task.Title = title
	return s.taskRepo.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, taskID uint) error {
	return s.taskRepo.Delete(ctx, taskID)
}

// ClearCategory deletes every task of a category, or of the general bucket
// when categoryID is nil.
func (s *TaskService) ClearCategory(ctx context.Context, categoryID *uint) (int64, error) {
	if categoryID == nil {
		return s.taskRepo.DeleteGeneral(ctx)
	}
	return s.taskRepo.DeleteByCategory(ctx, *categoryID)
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.List(ctx)
}

// Watch streams all tasks, incomplete first and newest first.
func (s *TaskService) Watch(ctx context.Context) (<-chan []model.Task, error) {
	return s.taskRepo.Observe(ctx)
}

// ListForDate returns the single-day tasks dated on the calendar day of date.
// Week tasks are never included.
func (s *TaskService) ListForDate(ctx context.Context, date time.Time) ([]model.Task, error) {
	start, end := week.DayRange(date.In(s.loc))
	tasks, err := s.taskRepo.ListInRange(ctx, week.ToMillis(start), week.ToMillis(end))
	if err != nil {
		return nil, err
	}
	return withoutWeekTasks(tasks), nil
}

// TasksForDate is the live form of ListForDate.
func (s *TaskService) TasksForDate(ctx context.Context, date time.Time) (<-chan []model.Task, error) {
	load := func(ctx context.Context) ([]model.Task, error) {
		return s.ListForDate(ctx, date)
	}
	return live.Observe(ctx, s.bus, load, live.Tasks)
}

// WeekTasks returns the week tasks of the week containing weekStart.
func (s *TaskService) WeekTasks(ctx context.Context, weekStart time.Time) ([]model.Task, error) {
	start := week.StartOfWeek(weekStart.In(s.loc))
	return s.taskRepo.ListWeekTasks(ctx, week.ToMillis(start))
}

// DayTasksOfWeek returns the single-day tasks of each day, Monday first, of
// the week containing weekStart.
func (s *TaskService) DayTasksOfWeek(ctx context.Context, weekStart time.Time) ([7][]model.Task, error) {
	var days [7][]model.Task
	start, end := week.Range(weekStart.In(s.loc))
	tasks, err := s.taskRepo.ListInRange(ctx, week.ToMillis(start), week.ToMillis(end))
	if err != nil {
		return days, err
	}
	for _, task := range withoutWeekTasks(tasks) {
		when, _ := task.When(s.loc)
		day := (int(when.Weekday()) + 6) % 7
		days[day] = append(days[day], task)
	}
	return days, nil
}

func withoutWeekTasks(tasks []model.Task) []model.Task {
	filtered := tasks[:0]
	for _, task := range tasks {
		if task.IsWeekTask {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}
