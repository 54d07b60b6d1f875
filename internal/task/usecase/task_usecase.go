package usecase

import (
	"context"
	"strings"
	"tasko-backend/internal/task/domain"
	"tasko-backend/internal/task/repository"
	"time"
)

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	taskRepo repository.TaskRepository
	loc      *time.Location
	now      func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase. Zone-less due dates
// are read in loc (time.Local when nil).
func NewTaskUsecase(taskRepo repository.TaskRepository, loc *time.Location) TaskUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &taskUsecase{
		taskRepo: taskRepo,
		loc:      loc,
		now:      time.Now,
	}
}

func (u *taskUsecase) CreateTask(ctx context.Context, req TaskCreateRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.NewValidationError("Title is required")
	}

	task := &domain.Task{
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Priority:     domain.PriorityMedium,
		Status:       domain.TaskStatusPending,
		Category:     strings.TrimSpace(req.Category),
	}

	if req.Priority != "" {
		p, err := parsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = p
	}
	if req.Status != "" {
		s, err := parseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		task.Status = s
	}
	if req.ReminderTime != "" {
		rt, err := parseReminderTime(req.ReminderTime)
		if err != nil {
			return nil, err
		}
		task.ReminderTime = rt
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := ParseDueDate(*req.DueDate, u.loc)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	if err := u.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (u *taskUsecase) ListTasks(ctx context.Context, status, category string) ([]*domain.Task, error) {
	var filter domain.Filter
	if status != "" {
		s, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &s
	}
	filter.Category = category
	return u.taskRepo.FindAll(ctx, filter)
}

func (u *taskUsecase) ListOverdue(ctx context.Context) ([]*domain.Task, error) {
	return u.taskRepo.FindOverdue(ctx, u.now())
}

func (u *taskUsecase) ListWithReminders(ctx context.Context) ([]*domain.Task, error) {
	return u.taskRepo.FindWithReminders(ctx)
}

func (u *taskUsecase) UpdateTask(ctx context.Context, taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, domain.NewValidationError("Title cannot be empty")
		}
		task.Title = title
	}
	if updates.Description != nil {
		task.Description = strings.TrimSpace(*updates.Description)
	}
	if updates.Priority != nil {
		p, err := parsePriority(*updates.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = p
	}
	if updates.Status != nil {
		s, err := parseStatus(*updates.Status)
		if err != nil {
			return nil, err
		}
		task.Status = s
	}
	if updates.DueDate != nil {
		if *updates.DueDate == "" {
			task.DueDate = nil
		} else {
			due, err := ParseDueDate(*updates.DueDate, u.loc)
			if err != nil {
				return nil, err
			}
			task.DueDate = &due
		}
	}
	if updates.ReminderTime != nil {
		rt, err := parseReminderTime(*updates.ReminderTime)
		if err != nil {
			return nil, err
		}
		task.ReminderTime = rt
	}
	if updates.Category != nil {
		task.Category = strings.TrimSpace(*updates.Category)
	}

	if err := u.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (u *taskUsecase) DeleteTask(ctx context.Context, taskID string) error {
	deleted, err := u.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTaskNotFound
	}
	return nil
}

var dueDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 and the shorter forms the frontend and the
// command interpreter produce. Zone-less values are read in loc.
func ParseDueDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dueDateFormats {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewValidationError("dueDate must be an ISO 8601 date")
}

// parseReminderTime accepts "" (no reminder) or a 24h "HH:MM" clock.
func parseReminderTime(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return "", domain.NewValidationError("reminderTime must be HH:MM")
	}
	return t.Format("15:04"), nil
}

func parsePriority(p string) (domain.Priority, error) {
	priority := domain.Priority(strings.ToLower(strings.TrimSpace(p)))
	if !priority.Valid() {
		return "", domain.NewValidationError("Priority must be low, medium, or high")
	}
	return priority, nil
}

func parseStatus(s string) (domain.TaskStatus, error) {
	status := domain.TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", domain.NewValidationError("Status must be pending, in_progress, or completed")
	}
	return status, nil
}
