package domain

import (
	"errors"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities so that high > medium > low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// CategoryScheduled marks tasks materialized from a recurring slot.
const CategoryScheduled = "scheduled"

// Task represents a to-do item, either created manually or generated from a schedule slot
type Task struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty" gorm:"index"`
	ReminderTime string     `json:"reminderTime,omitempty"`
	Priority     Priority   `json:"priority" gorm:"default:medium"`
	Status       TaskStatus `json:"status" gorm:"default:pending;index"`
	Category     string     `json:"category,omitempty"`
	// Set only on generated occurrences
	SlotID        *string   `json:"slotId,omitempty" gorm:"index"`
	OccurrenceKey *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Filter narrows task listings; zero values mean "any".
type Filter struct {
	Status   *TaskStatus
	Category string
}

var ErrTaskNotFound = errors.New("task not found")

// ValidationError is returned for malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
