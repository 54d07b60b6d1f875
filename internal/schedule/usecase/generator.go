package usecase

import (
	"math"
	"time"

	"tasko-backend/internal/schedule/domain"
	taskdomain "tasko-backend/internal/task/domain"
)

// CadenceAnchor fixes which week counts as week zero for biweekly and monthly slots.
type CadenceAnchor string

const (
	// AnchorSlotCreated counts weeks from the Sunday starting the week the slot was created.
	AnchorSlotCreated CadenceAnchor = "slot"
	// AnchorNow counts weeks from the moment generation runs, so the phase
	// moves with the wall clock.
	AnchorNow CadenceAnchor = "now"
)

// ParseCadenceAnchor maps a config value to an anchor, defaulting to AnchorSlotCreated.
func ParseCadenceAnchor(s string) CadenceAnchor {
	if CadenceAnchor(s) == AnchorNow {
		return AnchorNow
	}
	return AnchorSlotCreated
}

const week = 7 * 24 * time.Hour

// weekStart returns Sunday 00:00 of t's week in t's location.
func weekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// weekDiff is floor((at - anchor) / 7 days), measured between wall-clock
// readings so a DST shift inside the span does not move an occurrence into
// the neighbouring week.
func weekDiff(at, anchor time.Time) int {
	return int(math.Floor(float64(wallClock(at).Sub(wallClock(anchor))) / float64(week)))
}

// wallClock re-reads t's date and clock in its own location as a UTC instant.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

// cadenceAccepts applies the biweekly / monthly thinning to one occurrence.
func cadenceAccepts(cadence domain.Cadence, at, anchor time.Time) bool {
	switch cadence {
	case domain.CadenceBiweekly:
		return weekDiff(at, anchor)%2 == 0
	case domain.CadenceMonthly:
		return weekDiff(at, anchor)%4 == 0
	default:
		return true
	}
}

// occurrences lists the slot's start instants from the instant from through
// the calendar day of to (inclusive, in loc) that pass the cadence filter.
// A start earlier on from's day has already passed and is skipped.
func occurrences(slot *domain.Slot, from, to time.Time, anchor time.Time, loc *time.Location) []time.Time {
	start, err := domain.ParseClock(slot.StartTime)
	if err != nil {
		return nil
	}

	from, to = from.In(loc), to.In(loc)
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)

	var out []time.Time
	for !day.After(last) {
		if slot.OnDay(day.Weekday()) {
			at := start.On(day)
			if !at.Before(from) && cadenceAccepts(slot.Cadence, at, anchor) {
				out = append(out, at)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// occurrenceTask builds the pending task materialized for one occurrence.
func occurrenceTask(slot *domain.Slot, at time.Time) *taskdomain.Task {
	slotID := slot.ID
	key := slot.ID + "@" + at.UTC().Format(time.RFC3339)
	due := at
	return &taskdomain.Task{
		Title:         slot.Name,
		Description:   slot.Description,
		DueDate:       &due,
		ReminderTime:  slot.StartTime,
		Priority:      slot.Priority,
		Status:        taskdomain.TaskStatusPending,
		Category:      taskdomain.CategoryScheduled,
		SlotID:        &slotID,
		OccurrenceKey: &key,
	}
}
