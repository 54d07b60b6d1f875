// Package scanner runs the periodic background checks: overdue and due-soon
// alerts, schedule activity transitions, and materializing upcoming
// occurrences of recurring slots.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	notificationdomain "tasko-backend/internal/notification/domain"
	scheduledomain "tasko-backend/internal/schedule/domain"
	taskdomain "tasko-backend/internal/task/domain"
)

// TaskSource is the part of the task store the checks read.
type TaskSource interface {
	FindOverdue(ctx context.Context, now time.Time) ([]*taskdomain.Task, error)
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*taskdomain.Task, error)
	FindWithReminders(ctx context.Context) ([]*taskdomain.Task, error)
}

// Schedules resolves the current slot and materializes occurrences.
type Schedules interface {
	CurrentSlot(ctx context.Context, now time.Time) (*scheduledomain.Slot, error)
	GenerateAll(ctx context.Context, start, end time.Time) ([]*taskdomain.Task, error)
}

// Emitter stores and dispatches notifications, dropping duplicates.
type Emitter interface {
	Emit(ctx context.Context, n *notificationdomain.Notification) (bool, error)
}

// Config tunes the checks.
type Config struct {
	// DueSoonWindow is how far ahead a due date triggers a due-soon alert.
	DueSoonWindow time.Duration
	// GenerationDays is how many days ahead Generate materializes.
	GenerationDays int
	// Location is where reminder times ("HH:MM") are read.
	Location *time.Location
}

// SweepResult counts the notifications a sweep created.
type SweepResult struct {
	Overdue  int
	DueSoon  int
	Reminder int
	Activity int
}

// Scanner owns the last observed activity. Sweep and Generate never run
// concurrently on the same Scanner.
type Scanner struct {
	tasks     TaskSource
	schedules Schedules
	emitter   Emitter
	cfg       Config
	now       func() time.Time

	mu       sync.Mutex
	lastSlot *scheduledomain.Slot
	primed   bool
}

// New creates a Scanner.
func New(tasks TaskSource, schedules Schedules, emitter Emitter, cfg Config) *Scanner {
	if cfg.DueSoonWindow <= 0 {
		cfg.DueSoonWindow = time.Hour
	}
	if cfg.GenerationDays <= 0 {
		cfg.GenerationDays = 7
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Scanner{
		tasks:     tasks,
		schedules: schedules,
		emitter:   emitter,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Prime records the slot active right now without emitting anything, so a
// restart inside a slot is not reported as a transition.
func (s *Scanner) Prime(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prime(ctx)
}

func (s *Scanner) prime(ctx context.Context) error {
	slot, err := s.schedules.CurrentSlot(ctx, s.now())
	if err != nil {
		return fmt.Errorf("resolve current slot: %w", err)
	}
	s.lastSlot = slot
	s.primed = true
	if slot != nil {
		log.Printf("[Scanner] Current activity at startup: %s", slot.Name)
	}
	return nil
}

// Sweep runs the overdue, due-soon, reminder and activity checks in that order. A
// failing check is logged and does not stop the others; the failures are
// returned joined.
func (s *Scanner) Sweep(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var (
		res  SweepResult
		errs []error
		err  error
	)

	if res.Overdue, err = s.checkOverdue(ctx, now); err != nil {
		log.Printf("[Scanner] Overdue check failed: %v", err)
		errs = append(errs, fmt.Errorf("overdue check: %w", err))
	}
	if res.DueSoon, err = s.checkDueSoon(ctx, now); err != nil {
		log.Printf("[Scanner] Due-soon check failed: %v", err)
		errs = append(errs, fmt.Errorf("due-soon check: %w", err))
	}
	if res.Reminder, err = s.checkReminders(ctx, now); err != nil {
		log.Printf("[Scanner] Reminder check failed: %v", err)
		errs = append(errs, fmt.Errorf("reminder check: %w", err))
	}
	if res.Activity, err = s.checkActivity(ctx, now); err != nil {
		log.Printf("[Scanner] Activity check failed: %v", err)
		errs = append(errs, fmt.Errorf("activity check: %w", err))
	}

	if res.Overdue+res.DueSoon+res.Reminder+res.Activity > 0 {
		log.Printf("[Scanner] Sweep created %d overdue, %d due-soon, %d reminder, %d activity notifications",
			res.Overdue, res.DueSoon, res.Reminder, res.Activity)
	}
	return res, errors.Join(errs...)
}

func (s *Scanner) checkOverdue(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.tasks.FindOverdue(ctx, now)
	if err != nil {
		return 0, err
	}
	return s.emitForTasks(ctx, tasks, notificationdomain.TypeOverdue, func(t *taskdomain.Task) string {
		return fmt.Sprintf("Task %q is overdue", t.Title)
	})
}

func (s *Scanner) checkDueSoon(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.tasks.FindDueBetween(ctx, now, now.Add(s.cfg.DueSoonWindow))
	if err != nil {
		return 0, err
	}
	within := describeWindow(s.cfg.DueSoonWindow)
	return s.emitForTasks(ctx, tasks, notificationdomain.TypeDueSoon, func(t *taskdomain.Task) string {
		return fmt.Sprintf("Task %q is due in less than %s", t.Title, within)
	})
}

// checkReminders alerts once the task's reminder time has passed on its due
// date, as long as the task is not yet due.
func (s *Scanner) checkReminders(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.tasks.FindWithReminders(ctx)
	if err != nil {
		return 0, err
	}
	var due []*taskdomain.Task
	for _, t := range tasks {
		at, ok := reminderAt(t, s.cfg.Location)
		if ok && !now.Before(at) && now.Before(*t.DueDate) {
			due = append(due, t)
		}
	}
	return s.emitForTasks(ctx, due, notificationdomain.TypeReminder, func(t *taskdomain.Task) string {
		return fmt.Sprintf("Reminder: %q is due at %s", t.Title, t.DueDate.In(s.cfg.Location).Format("15:04"))
	})
}

// reminderAt places the task's "HH:MM" reminder on its due date's calendar day.
func reminderAt(t *taskdomain.Task, loc *time.Location) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	clock, err := scheduledomain.ParseClock(t.ReminderTime)
	if err != nil {
		return time.Time{}, false
	}
	return clock.On(t.DueDate.In(loc)), true
}

// emitForTasks creates one notification per task, keyed on the task's due
// date so a task that gets rescheduled can alert again.
func (s *Scanner) emitForTasks(ctx context.Context, tasks []*taskdomain.Task, typ notificationdomain.NotificationType, message func(*taskdomain.Task) string) (int, error) {
	created := 0
	var errs []error
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		taskID := t.ID
		key := notificationdomain.TaskDedupKey(t.ID, typ, *t.DueDate)
		ok, err := s.emitter.Emit(ctx, &notificationdomain.Notification{
			TaskID:   &taskID,
			Type:     typ,
			Message:  message(t),
			DedupKey: &key,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", t.ID, err))
			continue
		}
		if ok {
			created++
		}
	}
	return created, errors.Join(errs...)
}

func (s *Scanner) checkActivity(ctx context.Context, now time.Time) (int, error) {
	if !s.primed {
		return 0, s.prime(ctx)
	}

	current, err := s.schedules.CurrentSlot(ctx, now)
	if err != nil {
		return 0, err
	}

	prev := s.lastSlot
	var n *notificationdomain.Notification
	switch {
	case current != nil && (prev == nil || prev.ID != current.ID):
		n = activityNotification(current, fmt.Sprintf("Now doing %q", current.Name))
	case current == nil && prev != nil:
		n = activityNotification(prev, fmt.Sprintf("Finished %q", prev.Name))
	default:
		s.lastSlot = current
		return 0, nil
	}

	if _, err := s.emitter.Emit(ctx, n); err != nil {
		// Keep the old state so the transition is retried next sweep.
		return 0, err
	}
	s.lastSlot = current
	return 1, nil
}

func activityNotification(slot *scheduledomain.Slot, message string) *notificationdomain.Notification {
	slotID := slot.ID
	return &notificationdomain.Notification{
		SlotID:  &slotID,
		Type:    notificationdomain.TypeActivityChange,
		Message: message,
	}
}

// Generate materializes occurrences from now through the configured number
// of days ahead for every active schedule.
func (s *Scanner) Generate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	end := start.AddDate(0, 0, s.cfg.GenerationDays)
	tasks, err := s.schedules.GenerateAll(ctx, start, end)
	if err != nil {
		log.Printf("[Scanner] Generation failed after %d tasks: %v", len(tasks), err)
		return len(tasks), err
	}
	log.Printf("[Scanner] Generated %d tasks through %s", len(tasks), end.Format("2006-01-02"))
	return len(tasks), nil
}

// describeWindow renders durations like "1 hour", "30 minutes" or "1h30m0s".
func describeWindow(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0 && d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
