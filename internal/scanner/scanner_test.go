package scanner

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	notificationdomain "tasko-backend/internal/notification/domain"
	notificationrepo "tasko-backend/internal/notification/repository"
	notificationusecase "tasko-backend/internal/notification/usecase"
	scheduledomain "tasko-backend/internal/schedule/domain"
	schedulerepo "tasko-backend/internal/schedule/repository"
	scheduleusecase "tasko-backend/internal/schedule/usecase"
	taskdomain "tasko-backend/internal/task/domain"
	taskrepo "tasko-backend/internal/task/repository"
	"tasko-backend/pkg/database"
)

type fixture struct {
	tasks         taskrepo.TaskRepository
	schedules     scheduleusecase.ScheduleUsecase
	notifications notificationusecase.NotificationUsecase
	scanner       *Scanner
	clock         time.Time
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&taskdomain.Task{}, &notificationdomain.Notification{},
		&scheduledomain.WeeklySchedule{}, &scheduledomain.Slot{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{clock: start}
	f.tasks = taskrepo.NewGormTaskRepository(db)
	f.schedules = scheduleusecase.NewScheduleUsecase(schedulerepo.NewGormScheduleRepository(db), f.tasks,
		scheduleusecase.Options{Location: time.UTC})
	f.notifications = notificationusecase.NewNotificationUsecase(notificationrepo.NewGormNotificationRepository(db), nil)
	f.scanner = New(f.tasks, f.schedules, f.notifications, Config{DueSoonWindow: time.Hour, Location: time.UTC})
	f.scanner.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) task(t *testing.T, title string, due time.Time, status taskdomain.TaskStatus) *taskdomain.Task {
	t.Helper()
	task := &taskdomain.Task{Title: title, DueDate: &due, Priority: taskdomain.PriorityMedium, Status: status}
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (f *fixture) notificationsOf(t *testing.T, typ notificationdomain.NotificationType) []*notificationdomain.Notification {
	t.Helper()
	all, err := f.notifications.List(context.Background())
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	var out []*notificationdomain.Notification
	for _, n := range all {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// Wednesday 2024-01-03 12:00 UTC
var noon = time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC)

func TestOverdueIsNotifiedOnce(t *testing.T) {
	f := newFixture(t, noon)
	ctx := context.Background()
	late := f.task(t, "Pay rent", noon.Add(-24*time.Hour), taskdomain.TaskStatusPending)
	f.task(t, "Done already", noon.Add(-24*time.Hour), taskdomain.TaskStatusCompleted)
	f.task(t, "Later", noon.Add(48*time.Hour), taskdomain.TaskStatusPending)

	res, err := f.scanner.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Overdue != 1 {
		t.Fatalf("overdue = %d, want 1", res.Overdue)
	}

	res, err = f.scanner.Sweep(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Overdue != 0 {
		t.Fatalf("second sweep overdue = %d, want 0", res.Overdue)
	}

	got := f.notificationsOf(t, notificationdomain.TypeOverdue)
	if len(got) != 1 || got[0].TaskID == nil || *got[0].TaskID != late.ID {
		t.Fatalf("unexpected overdue notifications: %+v", got)
	}
	if !strings.Contains(got[0].Message, "Pay rent") {
		t.Fatalf("message %q does not name the task", got[0].Message)
	}
}

func TestRescheduledTaskAlertsAgain(t *testing.T) {
	f := newFixture(t, noon)
	ctx := context.Background()
	task := f.task(t, "Dentist", noon.Add(-2*time.Hour), taskdomain.TaskStatusPending)

	if _, err := f.scanner.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	moved := noon.Add(-time.Hour)
	task.DueDate = &moved
	if err := f.tasks.Update(ctx, task); err != nil {
		t.Fatalf("update: %v", err)
	}
	res, err := f.scanner.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Overdue != 1 {
		t.Fatalf("rescheduled task overdue = %d, want 1", res.Overdue)
	}
}

func TestDueSoonWindow(t *testing.T) {
	f := newFixture(t, noon)
	ctx := context.Background()
	f.task(t, "Standup", noon.Add(30*time.Minute), taskdomain.TaskStatusPending)
	f.task(t, "Edge", noon.Add(time.Hour), taskdomain.TaskStatusPending)
	f.task(t, "Tomorrow", noon.Add(25*time.Hour), taskdomain.TaskStatusPending)
	f.task(t, "Finished", noon.Add(10*time.Minute), taskdomain.TaskStatusCompleted)

	res, err := f.scanner.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.DueSoon != 2 || res.Overdue != 0 {
		t.Fatalf("result = %+v, want 2 due-soon", res)
	}

	f.clock = noon.Add(5 * time.Minute)
	res, err = f.scanner.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.DueSoon != 0 {
		t.Fatalf("repeated due-soon = %d, want 0", res.DueSoon)
	}
	msgs := f.notificationsOf(t, notificationdomain.TypeDueSoon)
	if len(msgs) != 2 || !strings.Contains(msgs[0].Message, "less than 1 hour") {
		t.Fatalf("unexpected due-soon notifications: %+v", msgs)
	}
}

func TestActivityTransitions(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.January, 3, 9, 30, 0, 0, time.UTC))
	ctx := context.Background()

	name := "Deep work"
	schedule, err := f.schedules.CreateSchedule(ctx, scheduleusecase.ScheduleRequest{Name: &name})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	start, end := "09:00", "10:00"
	slot, err := f.schedules.CreateSlot(ctx, schedule.ID, scheduleusecase.SlotRequest{
		Name: &name, DaysOfWeek: []int{3}, StartTime: &start, EndTime: &end,
	})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}

	// Starting inside the slot is not a transition.
	if err := f.scanner.Prime(ctx); err != nil {
		t.Fatalf("prime: %v", err)
	}
	res, err := f.scanner.Sweep(ctx)
	if err != nil || res.Activity != 0 {
		t.Fatalf("sweep inside slot: %+v, %v", res, err)
	}

	f.clock = time.Date(2024, time.January, 3, 10, 1, 0, 0, time.UTC)
	res, err = f.scanner.Sweep(ctx)
	if err != nil || res.Activity != 1 {
		t.Fatalf("sweep after slot: %+v, %v", res, err)
	}

	f.clock = time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	res, err = f.scanner.Sweep(ctx)
	if err != nil || res.Activity != 1 {
		t.Fatalf("sweep at next start: %+v, %v", res, err)
	}

	msgs := f.notificationsOf(t, notificationdomain.TypeActivityChange)
	if len(msgs) != 2 {
		t.Fatalf("got %d activity notifications, want 2", len(msgs))
	}
	var finished, started bool
	for _, n := range msgs {
		if n.SlotID == nil || *n.SlotID != slot.ID || n.TaskID != nil {
			t.Fatalf("activity notification not tied to slot: %+v", n)
		}
		finished = finished || strings.HasPrefix(n.Message, "Finished")
		started = started || strings.HasPrefix(n.Message, "Now doing")
	}
	if !finished || !started {
		t.Fatalf("expected a finish and a start message, got %+v", msgs)
	}
}

func TestReminderFiresOncePastReminderTime(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.January, 3, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	due := time.Date(2024, time.January, 3, 17, 0, 0, 0, time.UTC)
	task := &taskdomain.Task{Title: "Call bank", DueDate: &due, ReminderTime: "09:00",
		Priority: taskdomain.PriorityMedium, Status: taskdomain.TaskStatusPending}
	if err := f.tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	res, err := f.scanner.Sweep(ctx)
	if err != nil || res.Reminder != 0 {
		t.Fatalf("before reminder time: %+v, %v", res, err)
	}

	f.clock = time.Date(2024, time.January, 3, 9, 1, 0, 0, time.UTC)
	res, err = f.scanner.Sweep(ctx)
	if err != nil || res.Reminder != 1 {
		t.Fatalf("after reminder time: %+v, %v", res, err)
	}

	f.clock = time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC)
	res, err = f.scanner.Sweep(ctx)
	if err != nil || res.Reminder != 0 {
		t.Fatalf("reminder repeated: %+v, %v", res, err)
	}
	got := f.notificationsOf(t, notificationdomain.TypeReminder)
	if len(got) != 1 || got[0].Message != `Reminder: "Call bank" is due at 17:00` {
		t.Fatalf("unexpected reminders: %+v", got)
	}
}

type brokenTasks struct{}

func (brokenTasks) FindOverdue(context.Context, time.Time) ([]*taskdomain.Task, error) {
	return nil, errors.New("database is locked")
}

func (brokenTasks) FindDueBetween(context.Context, time.Time, time.Time) ([]*taskdomain.Task, error) {
	return nil, nil
}

func (brokenTasks) FindWithReminders(context.Context) ([]*taskdomain.Task, error) {
	return nil, nil
}

type fixedSchedules struct{ slot *scheduledomain.Slot }

func (s fixedSchedules) CurrentSlot(context.Context, time.Time) (*scheduledomain.Slot, error) {
	return s.slot, nil
}

func (fixedSchedules) GenerateAll(context.Context, time.Time, time.Time) ([]*taskdomain.Task, error) {
	return nil, nil
}

type memoryEmitter struct{ got []*notificationdomain.Notification }

func (e *memoryEmitter) Emit(_ context.Context, n *notificationdomain.Notification) (bool, error) {
	e.got = append(e.got, n)
	return true, nil
}

func TestFailingCheckDoesNotStopOthers(t *testing.T) {
	emitter := &memoryEmitter{}
	schedules := fixedSchedules{}
	sc := New(brokenTasks{}, schedules, emitter, Config{})
	if err := sc.Prime(context.Background()); err != nil {
		t.Fatalf("prime: %v", err)
	}

	sc.schedules = fixedSchedules{slot: &scheduledomain.Slot{ID: "s1", Name: "Gym"}}
	res, err := sc.Sweep(context.Background())
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Fatalf("expected overdue failure to be reported, got %v", err)
	}
	if res.Activity != 1 || len(emitter.got) != 1 || emitter.got[0].Message != `Now doing "Gym"` {
		t.Fatalf("activity check should still run: %+v %+v", res, emitter.got)
	}
}

func TestGenerateUsesConfiguredHorizon(t *testing.T) {
	f := newFixture(t, time.Date(2024, time.January, 1, 6, 0, 0, 0, time.UTC))
	ctx := context.Background()

	name := "Run"
	schedule, err := f.schedules.CreateSchedule(ctx, scheduleusecase.ScheduleRequest{Name: &name})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	start, end, cadence, recurring := "07:00", "08:00", "weekly", true
	if _, err := f.schedules.CreateSlot(ctx, schedule.ID, scheduleusecase.SlotRequest{
		Name: &name, DaysOfWeek: []int{1}, StartTime: &start, EndTime: &end,
		IsRecurring: &recurring, RecurrencePattern: &cadence,
	}); err != nil {
		t.Fatalf("create slot: %v", err)
	}

	// Monday 06:00 plus 7 days reaches the following Monday.
	n, err := f.scanner.Generate(ctx)
	if err != nil || n != 2 {
		t.Fatalf("generate = %d, %v; want 2", n, err)
	}
	n, err = f.scanner.Generate(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second generate = %d, %v; want 0", n, err)
	}
}

func TestGenerateSkipsSlotsAlreadyPastToday(t *testing.T) {
	// Monday 09:00, after the 07:00 run has started.
	f := newFixture(t, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	name := "Run"
	schedule, err := f.schedules.CreateSchedule(ctx, scheduleusecase.ScheduleRequest{Name: &name})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	start, end, cadence, recurring := "07:00", "08:00", "weekly", true
	if _, err := f.schedules.CreateSlot(ctx, schedule.ID, scheduleusecase.SlotRequest{
		Name: &name, DaysOfWeek: []int{1}, StartTime: &start, EndTime: &end,
		IsRecurring: &recurring, RecurrencePattern: &cadence,
	}); err != nil {
		t.Fatalf("create slot: %v", err)
	}

	if n, err := f.scanner.Generate(ctx); err != nil || n != 1 {
		t.Fatalf("generate = %d, %v; want only next Monday", n, err)
	}
	if _, err := f.scanner.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if overdue := f.notificationsOf(t, notificationdomain.TypeOverdue); len(overdue) != 0 {
		t.Fatalf("generated task flagged overdue: %v", overdue)
	}
}

func TestDescribeWindow(t *testing.T) {
	cases := map[time.Duration]string{
		time.Hour:        "1 hour",
		3 * time.Hour:    "3 hours",
		30 * time.Minute: "30 minutes",
		90 * time.Minute: "1h30m0s",
	}
	for d, want := range cases {
		if got := describeWindow(d); got != want {
			t.Errorf("describeWindow(%v) = %q, want %q", d, got, want)
		}
	}
}
