package usecase

import (
	"context"
	"time"

	"tasko-backend/internal/schedule/domain"
	taskdomain "tasko-backend/internal/task/domain"
)

// ScheduleUsecase defines schedule management, slot resolution and
// occurrence generation
type ScheduleUsecase interface {
	CreateSchedule(ctx context.Context, req ScheduleRequest) (*domain.WeeklySchedule, error)
	GetSchedule(ctx context.Context, id string) (*domain.WeeklySchedule, error)
	ListSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error)
	UpdateSchedule(ctx context.Context, id string, req ScheduleRequest) (*domain.WeeklySchedule, error)
	DeleteSchedule(ctx context.Context, id string) error

	CreateSlot(ctx context.Context, scheduleID string, req SlotRequest) (*domain.Slot, error)
	ListSlots(ctx context.Context, scheduleID string) ([]*domain.Slot, error)
	UpdateSlot(ctx context.Context, slotID string, req SlotRequest) (*domain.Slot, error)
	DeleteSlot(ctx context.Context, slotID string) error

	// CurrentSlot returns the slot of any active schedule covering now, or nil
	CurrentSlot(ctx context.Context, now time.Time) (*domain.Slot, error)
	// NextSlot returns the slot of any active schedule starting soonest after now, or nil
	NextSlot(ctx context.Context, now time.Time) (*domain.Slot, error)
	// CurrentSlotInSchedule is CurrentSlot restricted to one schedule
	CurrentSlotInSchedule(ctx context.Context, scheduleID string, now time.Time) (*domain.Slot, error)
	// SlotsAt lists a schedule's slots covering the given weekday and "HH:MM"
	SlotsAt(ctx context.Context, scheduleID string, day int, clock string) ([]*domain.Slot, error)
	// WeeklyView lists active slots sorted by first weekday, then start time
	WeeklyView(ctx context.Context) ([]*domain.Slot, error)

	// Generate materializes the slot's occurrences in [start, end] as tasks,
	// returning only the newly created ones
	Generate(ctx context.Context, slot *domain.Slot, start, end time.Time) ([]*taskdomain.Task, error)
	// GenerateForSchedule runs Generate over a schedule's recurring slots; an
	// inactive or missing schedule yields nothing
	GenerateForSchedule(ctx context.Context, scheduleID string, start, end time.Time) ([]*taskdomain.Task, error)
	// GenerateAll runs GenerateForSchedule over every active schedule
	GenerateAll(ctx context.Context, start, end time.Time) ([]*taskdomain.Task, error)
}

// ScheduleRequest is used for both create and partial update
type ScheduleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// SlotRequest is used for both create and partial update. DayOfWeek is
// accepted as shorthand for a single-day slot.
type SlotRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	DaysOfWeek        []int   `json:"daysOfWeek"`
	DayOfWeek         *int    `json:"dayOfWeek"`
	StartTime         *string `json:"startTime"`
	EndTime           *string `json:"endTime"`
	Priority          *string `json:"priority"`
	Color             *string `json:"color"`
	IsRecurring       *bool   `json:"isRecurring"`
	RecurrencePattern *string `json:"recurrencePattern"`
}

// Options tunes resolution and generation
type Options struct {
	Policy   SelectionPolicy
	Anchor   CadenceAnchor
	Location *time.Location
}
