// Package schedule selects the classes relevant to the current moment.
package schedule

import "github.com/githubixx/signage-go/internal/domain"

// Shift boundaries in hours.
const (
	afternoonStart = 12
	nightStart     = 18
	// Classes starting before dawnEnd stay visible during the night shift.
	dawnEnd = 6
)

// ClassifyShift maps a wall-clock hour (0-23) to its shift.
func ClassifyShift(hour int) domain.Shift {
	switch {
	case hour < afternoonStart:
		return domain.ShiftMorning
	case hour < nightStart:
		return domain.ShiftAfternoon
	default:
		return domain.ShiftNight
	}
}

// InShift reports whether a class starting at startHour belongs to shift.
// The night range wraps around midnight, so hours 0-5 match both night and
// morning.
func InShift(startHour int, shift domain.Shift) bool {
	switch shift {
	case domain.ShiftMorning:
		return startHour >= 0 && startHour < afternoonStart
	case domain.ShiftAfternoon:
		return startHour >= afternoonStart && startHour < nightStart
	case domain.ShiftNight:
		return startHour >= nightStart || (startHour >= 0 && startHour < dawnEnd)
	default:
		return false
	}
}

// FilterByShift keeps the classes whose start hour falls in shift.
// Classes with an unparseable start time are dropped. Order is preserved.
func FilterByShift(items []domain.ScheduledItem, shift domain.Shift) []domain.ScheduledItem {
	out := make([]domain.ScheduledItem, 0, len(items))
	for _, it := range items {
		hour, ok := domain.ClockHour(it.StartTime)
		if !ok {
			continue
		}
		if InShift(hour, shift) {
			out = append(out, it)
		}
	}
	return out
}

// FilterByCourse keeps classes tagged with course. An empty course keeps
// everything; untagged classes are shown on every screen.
func FilterByCourse(items []domain.ScheduledItem, course string) []domain.ScheduledItem {
	if course == "" {
		return items
	}
	out := make([]domain.ScheduledItem, 0, len(items))
	for _, it := range items {
		if it.Course == "" || it.Course == course {
			out = append(out, it)
		}
	}
	return out
}
