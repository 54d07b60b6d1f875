package usecase

import (
	"context"
	"tasko-backend/internal/notification/domain"
)

// NotificationUsecase defines notification business logic
type NotificationUsecase interface {
	// Create stores a notification sent by a client
	Create(ctx context.Context, req CreateRequest) (*domain.Notification, error)

	// Emit stores a generated notification and dispatches it. A notification
	// with a DedupKey that already exists is dropped; the bool reports
	// whether it was stored.
	Emit(ctx context.Context, n *domain.Notification) (bool, error)

	Get(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context) ([]*domain.Notification, error)
	ListUnread(ctx context.Context) ([]*domain.Notification, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (domain.Count, error)
}

// CreateRequest is the body of POST /api/notifications
type CreateRequest struct {
	TaskID  string `json:"taskId"`
	Type    string `json:"type"`
	Message string `json:"message"`
}
