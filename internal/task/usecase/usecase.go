package usecase

import (
	"context"
	"tasko-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// CreateTask creates a new task manually
	CreateTask(ctx context.Context, req TaskCreateRequest) (*domain.Task, error)

	// GetTaskByID retrieves a task by ID
	GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasks retrieves tasks with optional status/category filters
	ListTasks(ctx context.Context, status, category string) ([]*domain.Task, error)

	// ListOverdue retrieves unfinished tasks past their due date
	ListOverdue(ctx context.Context) ([]*domain.Task, error)

	// ListWithReminders retrieves unfinished tasks that carry a reminder
	ListWithReminders(ctx context.Context) ([]*domain.Task, error)

	// UpdateTask applies a partial update
	UpdateTask(ctx context.Context, taskID string, updates TaskUpdateRequest) (*domain.Task, error)

	// DeleteTask deletes a task together with its notifications
	DeleteTask(ctx context.Context, taskID string) error
}

// TaskCreateRequest carries the fields accepted on creation
type TaskCreateRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DueDate      *string `json:"dueDate"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	ReminderTime string  `json:"reminderTime"`
	Category     string  `json:"category"`
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Status       *string `json:"status,omitempty"`
	ReminderTime *string `json:"reminderTime,omitempty"`
	Category     *string `json:"category,omitempty"`
}
