package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"tasko-backend/internal/schedule/domain"
	"tasko-backend/internal/schedule/repository"
	taskdomain "tasko-backend/internal/task/domain"
	taskrepo "tasko-backend/internal/task/repository"
)

type scheduleUsecase struct {
	repo     repository.ScheduleRepository
	taskRepo taskrepo.TaskRepository
	policy   SelectionPolicy
	anchor   CadenceAnchor
	loc      *time.Location
	now      func() time.Time
}

// NewScheduleUsecase creates a ScheduleUsecase
func NewScheduleUsecase(repo repository.ScheduleRepository, taskRepo taskrepo.TaskRepository, opts Options) ScheduleUsecase {
	if opts.Policy == "" {
		opts.Policy = PolicyPriority
	}
	if opts.Anchor == "" {
		opts.Anchor = AnchorSlotCreated
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &scheduleUsecase{
		repo:     repo,
		taskRepo: taskRepo,
		policy:   opts.Policy,
		anchor:   opts.Anchor,
		loc:      opts.Location,
		now:      time.Now,
	}
}

func (u *scheduleUsecase) CreateSchedule(ctx context.Context, req ScheduleRequest) (*domain.WeeklySchedule, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, domain.NewValidationError("Schedule name is required")
	}
	schedule := &domain.WeeklySchedule{
		Name:     strings.TrimSpace(*req.Name),
		IsActive: true,
	}
	if req.Description != nil {
		schedule.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := u.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return schedule, nil
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, id string) (*domain.WeeklySchedule, error) {
	schedule, err := u.repo.FindScheduleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, domain.ErrScheduleNotFound
	}
	return schedule, nil
}

func (u *scheduleUsecase) ListSchedules(ctx context.Context) ([]*domain.WeeklySchedule, error) {
	return u.repo.FindAllSchedules(ctx)
}

func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, id string, req ScheduleRequest) (*domain.WeeklySchedule, error) {
	schedule, err := u.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.NewValidationError("Schedule name is required")
		}
		schedule.Name = name
	}
	if req.Description != nil {
		schedule.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	if err := u.repo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return schedule, nil
}

func (u *scheduleUsecase) DeleteSchedule(ctx context.Context, id string) error {
	deleted, err := u.repo.DeleteSchedule(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (u *scheduleUsecase) CreateSlot(ctx context.Context, scheduleID string, req SlotRequest) (*domain.Slot, error) {
	schedule, err := u.repo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, domain.ErrScheduleNotFound
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		(len(req.DaysOfWeek) == 0 && req.DayOfWeek == nil) ||
		req.StartTime == nil || req.EndTime == nil {
		return nil, domain.NewValidationError("name, daysOfWeek, startTime and endTime are required")
	}

	slot := &domain.Slot{
		ScheduleID: scheduleID,
		Priority:   taskdomain.PriorityMedium,
	}
	if err := applySlotRequest(slot, req); err != nil {
		return nil, err
	}
	if err := u.repo.CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (u *scheduleUsecase) ListSlots(ctx context.Context, scheduleID string) ([]*domain.Slot, error) {
	if _, err := u.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	return u.repo.FindSlotsBySchedule(ctx, scheduleID)
}

func (u *scheduleUsecase) UpdateSlot(ctx context.Context, slotID string, req SlotRequest) (*domain.Slot, error) {
	slot, err := u.repo.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, domain.ErrSlotNotFound
	}
	if err := applySlotRequest(slot, req); err != nil {
		return nil, err
	}
	if err := u.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return slot, nil
}

func (u *scheduleUsecase) DeleteSlot(ctx context.Context, slotID string) error {
	deleted, err := u.repo.DeleteSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSlotNotFound
	}
	return nil
}

// applySlotRequest merges the non-nil request fields into slot and validates the result.
func applySlotRequest(slot *domain.Slot, req SlotRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.NewValidationError("Slot name is required")
		}
		slot.Name = name
	}
	if req.Description != nil {
		slot.Description = strings.TrimSpace(*req.Description)
	}
	if len(req.DaysOfWeek) > 0 {
		slot.DaysOfWeek = domain.NormalizeDays(req.DaysOfWeek)
	} else if req.DayOfWeek != nil {
		slot.DaysOfWeek = []int{*req.DayOfWeek}
	}
	if req.StartTime != nil {
		slot.StartTime = strings.TrimSpace(*req.StartTime)
	}
	if req.EndTime != nil {
		slot.EndTime = strings.TrimSpace(*req.EndTime)
	}
	if req.Priority != nil {
		slot.Priority = taskdomain.Priority(strings.ToLower(strings.TrimSpace(*req.Priority)))
	}
	if req.Color != nil {
		slot.Color = *req.Color
	}
	if req.IsRecurring != nil {
		slot.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		slot.Cadence = domain.Cadence(strings.ToLower(strings.TrimSpace(*req.RecurrencePattern)))
	}
	return slot.Validate()
}

func (u *scheduleUsecase) CurrentSlot(ctx context.Context, now time.Time) (*domain.Slot, error) {
	slots, err := u.repo.FindActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	return resolveCurrent(slots, now.In(u.loc), u.policy), nil
}

func (u *scheduleUsecase) NextSlot(ctx context.Context, now time.Time) (*domain.Slot, error) {
	slots, err := u.repo.FindActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	return resolveNext(slots, now.In(u.loc)), nil
}

func (u *scheduleUsecase) CurrentSlotInSchedule(ctx context.Context, scheduleID string, now time.Time) (*domain.Slot, error) {
	if _, err := u.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	slots, err := u.repo.FindSlotsBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return resolveCurrent(slots, now.In(u.loc), u.policy), nil
}

func (u *scheduleUsecase) SlotsAt(ctx context.Context, scheduleID string, day int, clock string) ([]*domain.Slot, error) {
	if day < 0 || day > 6 {
		return nil, domain.NewValidationError("dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
	}
	at, err := domain.ParseClock(clock)
	if err != nil {
		return nil, domain.NewValidationError("time must be HH:MM")
	}
	if _, err := u.GetSchedule(ctx, scheduleID); err != nil {
		return nil, err
	}
	slots, err := u.repo.FindSlotsBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Slot, 0)
	for _, slot := range slots {
		if !slot.OnDay(time.Weekday(day)) {
			continue
		}
		start, errStart := domain.ParseClock(slot.StartTime)
		end, errEnd := domain.ParseClock(slot.EndTime)
		if errStart != nil || errEnd != nil {
			continue
		}
		if start <= at && at < end {
			matched = append(matched, slot)
		}
	}
	return matched, nil
}

func (u *scheduleUsecase) WeeklyView(ctx context.Context) ([]*domain.Slot, error) {
	slots, err := u.repo.FindActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(slots, func(i, j int) bool {
		di, dj := slots[i].FirstDay(), slots[j].FirstDay()
		if di != dj {
			return di < dj
		}
		return slots[i].StartTime < slots[j].StartTime
	})
	return slots, nil
}

func (u *scheduleUsecase) Generate(ctx context.Context, slot *domain.Slot, start, end time.Time) ([]*taskdomain.Task, error) {
	if end.Before(start) {
		return nil, domain.NewValidationError("endDate must not be before startDate")
	}

	anchor := weekStart(slot.CreatedAt.In(u.loc))
	if u.anchor == AnchorNow {
		anchor = u.now().In(u.loc)
	}

	created := make([]*taskdomain.Task, 0)
	for _, at := range occurrences(slot, start, end, anchor, u.loc) {
		task := occurrenceTask(slot, at)
		inserted, err := u.taskRepo.CreateOccurrence(ctx, task)
		if err != nil {
			return created, fmt.Errorf("create occurrence of slot %s at %s: %w", slot.ID, at.Format(time.RFC3339), err)
		}
		if inserted {
			created = append(created, task)
		}
	}
	return created, nil
}

func (u *scheduleUsecase) GenerateForSchedule(ctx context.Context, scheduleID string, start, end time.Time) ([]*taskdomain.Task, error) {
	schedule, err := u.repo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	created := make([]*taskdomain.Task, 0)
	if schedule == nil || !schedule.IsActive {
		return created, nil
	}
	for i := range schedule.Slots {
		slot := &schedule.Slots[i]
		if !slot.IsRecurring {
			continue
		}
		tasks, err := u.Generate(ctx, slot, start, end)
		created = append(created, tasks...)
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func (u *scheduleUsecase) GenerateAll(ctx context.Context, start, end time.Time) ([]*taskdomain.Task, error) {
	schedules, err := u.repo.FindActiveSchedules(ctx)
	if err != nil {
		return nil, err
	}
	created := make([]*taskdomain.Task, 0)
	for _, schedule := range schedules {
		tasks, err := u.GenerateForSchedule(ctx, schedule.ID, start, end)
		created = append(created, tasks...)
		if err != nil {
			return created, err
		}
		if len(tasks) > 0 {
			log.Printf("[Generator] Schedule %q: %d new tasks", schedule.Name, len(tasks))
		}
	}
	return created, nil
}
