package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	taskdomain "tasko-backend/internal/task/domain"

	"gorm.io/datatypes"
)

// WeeklySchedule is a named container of slots that can be switched on and off as a whole
type WeeklySchedule struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Slots       []Slot    `json:"slots,omitempty" gorm:"foreignKey:ScheduleID"`
}

// Cadence thins out a slot's weekly pattern
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly:
		return true
	}
	return false
}

// Slot is a recurring weekly interval on one or more weekdays (0=Sunday).
type Slot struct {
	ID          string                   `json:"id" gorm:"primaryKey"`
	ScheduleID  string                   `json:"scheduleId" gorm:"index;not null"`
	Name        string                   `json:"name" gorm:"not null"`
	Description string                   `json:"description,omitempty"`
	DaysOfWeek  datatypes.JSONSlice[int] `json:"daysOfWeek" gorm:"not null"`
	StartTime   string                   `json:"startTime" gorm:"not null"`
	EndTime     string                   `json:"endTime" gorm:"not null"`
	Priority    taskdomain.Priority      `json:"priority" gorm:"default:medium"`
	Color       string                   `json:"color,omitempty"`
	IsRecurring bool                     `json:"isRecurring"`
	Cadence     Cadence                  `json:"recurrencePattern,omitempty"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// OnDay reports whether the slot applies on the given weekday.
func (s *Slot) OnDay(day time.Weekday) bool {
	for _, d := range s.DaysOfWeek {
		if d == int(day) {
			return true
		}
	}
	return false
}

// FirstDay is the earliest weekday the slot applies on, or 7 when it has none.
func (s *Slot) FirstDay() int {
	first := 7
	for _, d := range s.DaysOfWeek {
		if d < first {
			first = d
		}
	}
	return first
}

// Validate enforces the slot invariants: days in 0-6, start < end, cadence set when recurring.
func (s *Slot) Validate() error {
	if len(s.DaysOfWeek) == 0 {
		return NewValidationError("daysOfWeek must contain at least one day")
	}
	for _, d := range s.DaysOfWeek {
		if d < 0 || d > 6 {
			return NewValidationError("dayOfWeek must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return NewValidationError("startTime must be HH:MM")
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return NewValidationError("endTime must be HH:MM")
	}
	if start >= end {
		return NewValidationError("startTime must be before endTime")
	}
	if !s.Priority.Valid() {
		return NewValidationError("Priority must be low, medium, or high")
	}
	if s.IsRecurring && s.Cadence == "" {
		return NewValidationError("Recurrence pattern is required when isRecurring is true")
	}
	if s.Cadence != "" && !s.Cadence.Valid() {
		return NewValidationError("Recurrence pattern must be weekly, biweekly, or monthly")
	}
	return nil
}

// NormalizeDays sorts the day set and drops duplicates.
func NormalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock reads a 24-hour "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return Clock(h*60 + m), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ClockOf returns the wall-clock minute of t in t's location.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On places the clock on t's calendar date, in t's location.
func (c Clock) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, c.Hour(), c.Minute(), 0, 0, t.Location())
}

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrSlotNotFound     = errors.New("schedule slot not found")
)

// ValidationError is returned for malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
