package repository

import (
	"context"
	"errors"
	"tasko-backend/internal/notification/domain"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based NotificationRepository
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func stamp(n *domain.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	stamp(n)
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *gormNotificationRepository) CreateDedup(ctx context.Context, n *domain.Notification) (bool, error) {
	stamp(n)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *gormNotificationRepository) FindAll(ctx context.Context) ([]*domain.Notification, error) {
	var out []*domain.Notification
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *gormNotificationRepository) FindUnread(ctx context.Context) ([]*domain.Notification, error) {
	var out []*domain.Notification
	err := r.db.WithContext(ctx).Where("is_read = ?", false).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *gormNotificationRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.Notification, error) {
	var out []*domain.Notification
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	// Matching on id alone keeps an already-read notification a hit.
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("id = ?", id).Update("is_read", true).Error
	return err == nil, err
}

func (r *gormNotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *gormNotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Notification{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormNotificationRepository) Count(ctx context.Context) (domain.Count, error) {
	var c domain.Count
	db := r.db.WithContext(ctx).Model(&domain.Notification{})
	if err := db.Count(&c.Total).Error; err != nil {
		return c, err
	}
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).Where("is_read = ?", false).Count(&c.Unread).Error
	return c, err
}
