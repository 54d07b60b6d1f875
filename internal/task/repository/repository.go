package repository

import (
	"context"
	"tasko-backend/internal/task/domain"
	"time"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *domain.Task) error

	// CreateOccurrence inserts a generated task unless one with the same
	// OccurrenceKey exists. It reports whether a row was inserted.
	CreateOccurrence(ctx context.Context, task *domain.Task) (bool, error)

	// FindByID finds a task by its ID, returning nil when absent
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll lists tasks, newest first
	FindAll(ctx context.Context, filter domain.Filter) ([]*domain.Task, error)

	// Update updates an existing task
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its notifications; false when nothing matched
	Delete(ctx context.Context, id string) (bool, error)

	// FindOverdue returns unfinished tasks whose due date is before now
	FindOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// FindDueBetween returns unfinished tasks due in (from, to]
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)

	// FindWithReminders returns unfinished tasks carrying a reminder time
	FindWithReminders(ctx context.Context) ([]*domain.Task, error)
}
