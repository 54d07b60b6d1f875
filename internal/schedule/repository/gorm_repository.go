package repository

import (
	"context"
	"errors"
	"tasko-backend/internal/schedule/domain"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormScheduleRepository implements ScheduleRepository using GORM
type gormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GORM-based ScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &gormScheduleRepository{db: db}
}

func (r *gormScheduleRepository) CreateSchedule(ctx context.Context, schedule *domain.WeeklySchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = schedule.CreatedAt
	return r.db.WithContext(ctx).Omit("Slots").Create(schedule).Error
}

func (r *gormScheduleRepository) FindScheduleByID(ctx context.Context, id string) (*domain.WeeklySchedule, error) {
	var schedule domain.WeeklySchedule
	err := r.db.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *gormScheduleRepository) FindAllSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error) {
	var schedules []*domain.WeeklySchedule
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) FindActiveSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error) {
	var schedules []*domain.WeeklySchedule
	err := r.db.WithContext(ctx).Where("is_active = ?", true).
		Order("created_at ASC, id ASC").Find(&schedules).Error
	return schedules, err
}

func (r *gormScheduleRepository) UpdateSchedule(ctx context.Context, schedule *domain.WeeklySchedule) error {
	schedule.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit("Slots").Save(schedule).Error
}

func (r *gormScheduleRepository) DeleteSchedule(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", id).Delete(&domain.Slot{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.WeeklySchedule{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

func (r *gormScheduleRepository) CreateSlot(ctx context.Context, slot *domain.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *gormScheduleRepository) FindSlotByID(ctx context.Context, id string) (*domain.Slot, error) {
	var slot domain.Slot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *gormScheduleRepository) FindSlotsBySchedule(ctx context.Context, scheduleID string) ([]*domain.Slot, error) {
	var slots []*domain.Slot
	err := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID).
		Order("created_at ASC, id ASC").Find(&slots).Error
	return slots, err
}

func (r *gormScheduleRepository) FindActiveSlots(ctx context.Context) ([]*domain.Slot, error) {
	var slots []*domain.Slot
	err := r.db.WithContext(ctx).Select("slots.*").
		Joins("JOIN weekly_schedules ON weekly_schedules.id = slots.schedule_id").
		Where("weekly_schedules.is_active = ?", true).
		Order("weekly_schedules.created_at ASC, weekly_schedules.id ASC, slots.created_at ASC, slots.id ASC").
		Find(&slots).Error
	return slots, err
}

func (r *gormScheduleRepository) UpdateSlot(ctx context.Context, slot *domain.Slot) error {
	slot.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *gormScheduleRepository) DeleteSlot(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Slot{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
