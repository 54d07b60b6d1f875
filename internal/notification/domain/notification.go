package domain

import (
	"errors"
	"fmt"
	"time"
)

// NotificationType is what the notification is about
type NotificationType string

const (
	TypeReminder       NotificationType = "reminder"
	TypeOverdue        NotificationType = "overdue"
	TypeDueSoon        NotificationType = "due_soon"
	TypeActivityChange NotificationType = "activity_change"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeReminder, TypeOverdue, TypeDueSoon, TypeActivityChange:
		return true
	}
	return false
}

// Notification is an alert about a task or a schedule transition.
// Only IsRead changes after creation.
type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey"`
	TaskID  *string          `json:"taskId,omitempty" gorm:"index"`
	SlotID  *string          `json:"slotId,omitempty" gorm:"index"`
	Type    NotificationType `json:"type" gorm:"not null;index"`
	Message string           `json:"message" gorm:"not null"`
	IsRead  bool             `json:"isRead" gorm:"default:false;index"`
	// DedupKey collapses repeated alerts for the same condition; NULL disables it.
	DedupKey  *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
}

// Count summarizes the inbox badge.
type Count struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}

// TaskDedupKey identifies "this condition for this task at this due date".
// A task that gets rescheduled can alert again.
func TaskDedupKey(taskID string, typ NotificationType, due time.Time) string {
	return fmt.Sprintf("%s:%s:%d", taskID, typ, due.Unix())
}

var ErrNotificationNotFound = errors.New("notification not found")

// ValidationError is returned for malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
