package usecase

import (
	"context"
	"fmt"
	"strings"

	"tasko-backend/internal/notification/dispatcher"
	"tasko-backend/internal/notification/domain"
	"tasko-backend/internal/notification/repository"
)

type notificationUsecase struct {
	repo       repository.NotificationRepository
	dispatcher *dispatcher.Dispatcher
}

// NewNotificationUsecase creates a NotificationUsecase. d may be nil.
func NewNotificationUsecase(repo repository.NotificationRepository, d *dispatcher.Dispatcher) NotificationUsecase {
	return &notificationUsecase{repo: repo, dispatcher: d}
}

func (u *notificationUsecase) Create(ctx context.Context, req CreateRequest) (*domain.Notification, error) {
	taskID := strings.TrimSpace(req.TaskID)
	message := strings.TrimSpace(req.Message)
	if taskID == "" || req.Type == "" || message == "" {
		return nil, domain.NewValidationError("taskId, type, and message are required")
	}
	typ := domain.NotificationType(req.Type)
	if !typ.Valid() {
		return nil, domain.NewValidationError("Type must be reminder, overdue, due_soon, or activity_change")
	}

	n := &domain.Notification{TaskID: &taskID, Type: typ, Message: message}
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	u.dispatcher.Dispatch(n)
	return n, nil
}

func (u *notificationUsecase) Emit(ctx context.Context, n *domain.Notification) (bool, error) {
	if n.DedupKey == nil {
		if err := u.repo.Create(ctx, n); err != nil {
			return false, err
		}
	} else {
		inserted, err := u.repo.CreateDedup(ctx, n)
		if err != nil || !inserted {
			return false, err
		}
	}
	u.dispatcher.Dispatch(n)
	return true, nil
}

func (u *notificationUsecase) Get(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return n, nil
}

func (u *notificationUsecase) List(ctx context.Context) ([]*domain.Notification, error) {
	return u.repo.FindAll(ctx)
}

func (u *notificationUsecase) ListUnread(ctx context.Context) ([]*domain.Notification, error) {
	return u.repo.FindUnread(ctx)
}

func (u *notificationUsecase) ListByTask(ctx context.Context, taskID string) ([]*domain.Notification, error) {
	return u.repo.FindByTask(ctx, taskID)
}

func (u *notificationUsecase) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	ok, err := u.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return u.Get(ctx, id)
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	return u.repo.MarkAllRead(ctx)
}

func (u *notificationUsecase) Delete(ctx context.Context, id string) error {
	ok, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (u *notificationUsecase) Count(ctx context.Context) (domain.Count, error) {
	return u.repo.Count(ctx)
}
