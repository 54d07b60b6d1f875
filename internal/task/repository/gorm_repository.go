package repository

import (
	"context"
	"errors"
	notificationdomain "tasko-backend/internal/notification/domain"
	"tasko-backend/internal/task/domain"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	stamp(task)
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *gormTaskRepository) CreateOccurrence(ctx context.Context, task *domain.Task) (bool, error) {
	stamp(task)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(task)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func stamp(task *domain.Task) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	normalize(task)
}

// normalize stores due dates in UTC so SQLite's text timestamps compare in order.
func normalize(task *domain.Task) {
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
}

func (r *gormTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindAll(ctx context.Context, filter domain.Filter) ([]*domain.Task, error) {
	var tasks []*domain.Task

	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	err := query.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = time.Now()
	normalize(task)
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *gormTaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&notificationdomain.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *gormTaskRepository) FindOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND status != ?", now.UTC(), domain.TaskStatusCompleted).
		Order("due_date ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("due_date > ? AND due_date <= ? AND status != ?", from.UTC(), to.UTC(), domain.TaskStatusCompleted).
		Order("due_date ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) FindWithReminders(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.WithContext(ctx).
		Where("reminder_time IS NOT NULL AND reminder_time != '' AND status != ?", domain.TaskStatusCompleted).
		Order("reminder_time ASC").Find(&tasks).Error
	return tasks, err
}
