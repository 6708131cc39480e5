package schedule

import "github.com/githubixx/signage-go/internal/domain"

// ActiveIndices returns, in ascending order, the indices of items whose
// [StartTime, EndTime] window contains now. Both ends are inclusive and all
// values compare as "HH:MM" strings. Items with malformed times are never
// active, and a malformed now matches nothing.
func ActiveIndices(items []domain.ScheduledItem, now string) []int {
	active := []int{}
	if !domain.ValidClock(now) {
		return active
	}
	for i, it := range items {
		if !domain.ValidClock(it.StartTime) || !domain.ValidClock(it.EndTime) {
			continue
		}
		if now >= it.StartTime && now <= it.EndTime {
			active = append(active, i)
		}
	}
	return active
}

// IsActive reports whether index i is in the sorted active set.
func IsActive(active []int, i int) bool {
	for _, a := range active {
		if a == i {
			return true
		}
		if a > i {
			return false
		}
	}
	return false
}
