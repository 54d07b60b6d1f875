package repository

import (
	"context"
	"tasko-backend/internal/schedule/domain"
)

// ScheduleRepository defines data access for weekly schedules and their slots
type ScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *domain.WeeklySchedule) error
	// FindScheduleByID returns nil when absent
	FindScheduleByID(ctx context.Context, id string) (*domain.WeeklySchedule, error)
	FindAllSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error)
	// FindActiveSchedules lists active schedules in creation order
	FindActiveSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error)
	UpdateSchedule(ctx context.Context, schedule *domain.WeeklySchedule) error
	// DeleteSchedule removes the schedule and all of its slots
	DeleteSchedule(ctx context.Context, id string) (bool, error)

	CreateSlot(ctx context.Context, slot *domain.Slot) error
	// FindSlotByID returns nil when absent
	FindSlotByID(ctx context.Context, id string) (*domain.Slot, error)
	// FindSlotsBySchedule lists a schedule's slots in creation order
	FindSlotsBySchedule(ctx context.Context, scheduleID string) ([]*domain.Slot, error)
	// FindActiveSlots lists slots of active schedules: schedule creation
	// order first, then slot creation order
	FindActiveSlots(ctx context.Context) ([]*domain.Slot, error)
	UpdateSlot(ctx context.Context, slot *domain.Slot) error
	DeleteSlot(ctx context.Context, id string) (bool, error)
}
