package repository

import (
	"context"
	"tasko-backend/internal/notification/domain"
)

// NotificationRepository defines data access for notifications
type NotificationRepository interface {
	// Create stores a notification unconditionally
	Create(ctx context.Context, n *domain.Notification) error

	// CreateDedup stores n unless a notification with the same DedupKey
	// exists. It reports whether a row was inserted.
	CreateDedup(ctx context.Context, n *domain.Notification) (bool, error)

	// FindByID returns nil when absent
	FindByID(ctx context.Context, id string) (*domain.Notification, error)

	// FindAll lists notifications, newest first
	FindAll(ctx context.Context) ([]*domain.Notification, error)
	FindUnread(ctx context.Context) ([]*domain.Notification, error)
	FindByTask(ctx context.Context, taskID string) ([]*domain.Notification, error)

	// MarkRead sets IsRead; false when nothing matched
	MarkRead(ctx context.Context, id string) (bool, error)
	// MarkAllRead returns the number of notifications that changed
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (domain.Count, error)
}
