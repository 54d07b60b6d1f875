package usecase

import (
	"time"

	"tasko-backend/internal/schedule/domain"
)

// SelectionPolicy decides which slot wins when several are active at once.
type SelectionPolicy string

const (
	// PolicyFirstMatch returns the first active slot in schedule, then slot, creation order.
	PolicyFirstMatch SelectionPolicy = "first"
	// PolicyPriority returns the highest-priority active slot; ties go to creation order.
	PolicyPriority SelectionPolicy = "priority"
)

// ParseSelectionPolicy maps a config value to a policy, defaulting to PolicyPriority.
func ParseSelectionPolicy(s string) SelectionPolicy {
	if SelectionPolicy(s) == PolicyFirstMatch {
		return PolicyFirstMatch
	}
	return PolicyPriority
}

// activeAt reports whether slot covers the instant now (in now's location).
func activeAt(slot *domain.Slot, now time.Time) bool {
	if !slot.OnDay(now.Weekday()) {
		return false
	}
	start, err := domain.ParseClock(slot.StartTime)
	if err != nil {
		return false
	}
	end, err := domain.ParseClock(slot.EndTime)
	if err != nil {
		return false
	}
	clock := domain.ClockOf(now)
	return start <= clock && clock < end
}

// resolveCurrent picks the slot active at now from slots given in creation order.
func resolveCurrent(slots []*domain.Slot, now time.Time, policy SelectionPolicy) *domain.Slot {
	var best *domain.Slot
	for _, slot := range slots {
		if !activeAt(slot, now) {
			continue
		}
		if policy == PolicyFirstMatch {
			return slot
		}
		if best == nil || slot.Priority.Rank() > best.Priority.Rank() {
			best = slot
		}
	}
	return best
}

// nextStart is the first start of slot strictly after now, or false when the
// slot has no valid days or start time.
func nextStart(slot *domain.Slot, now time.Time) (time.Time, bool) {
	start, err := domain.ParseClock(slot.StartTime)
	if err != nil {
		return time.Time{}, false
	}

	var next time.Time
	found := false
	today := int(now.Weekday())
	for _, day := range slot.DaysOfWeek {
		if day < 0 || day > 6 {
			continue
		}
		offset := (day - today + 7) % 7
		candidate := start.On(now.AddDate(0, 0, offset))
		if !candidate.After(now) {
			candidate = start.On(now.AddDate(0, 0, offset+7))
		}
		if !found || candidate.Before(next) {
			next = candidate
			found = true
		}
	}
	return next, found
}

// resolveNext returns the slot whose next start is the earliest one after now.
// Equal starts go to the slot seen first.
func resolveNext(slots []*domain.Slot, now time.Time) *domain.Slot {
	var (
		best     *domain.Slot
		bestTime time.Time
	)
	for _, slot := range slots {
		at, ok := nextStart(slot, now)
		if !ok {
			continue
		}
		if best == nil || at.Before(bestTime) {
			best = slot
			bestTime = at
		}
	}
	return best
}
