// Package news decides which announcements are eligible for display.
package news

import (
	"time"

	"github.com/githubixx/signage-go/internal/application/carousel"
	"github.com/githubixx/signage-go/internal/domain"
)

// Classify returns the single status label of item at now. An inactive
// item is always Inactive, whatever its publish window says.
func Classify(item domain.NewsItem, now time.Time) domain.NewsStatus {
	switch {
	case !item.Active:
		return domain.NewsInactive
	case now.Before(item.PublishStart):
		return domain.NewsScheduled
	case expired(item, now):
		return domain.NewsExpired
	default:
		return domain.NewsDisplaying
	}
}

// AggregateStats counts items per bucket. Buckets are independent: an
// inactive item whose window has passed counts as both inactive and expired.
func AggregateStats(items []domain.NewsItem, now time.Time) domain.NewsStats {
	var stats domain.NewsStats
	for _, it := range items {
		if IsDisplayable(it, now) {
			stats.Displaying++
		}
		if !it.Active {
			stats.Inactive++
		}
		if expired(it, now) {
			stats.Expired++
		}
		if now.Before(it.PublishStart) {
			stats.Scheduled++
		}
	}
	return stats
}

// IsDisplayable reports whether item is active and now lies inside its
// publish window. The window is inclusive and open-ended without an end.
func IsDisplayable(item domain.NewsItem, now time.Time) bool {
	return item.Active && !now.Before(item.PublishStart) && !expired(item, now)
}

// Displayable keeps the displayable items in their original order.
func Displayable(items []domain.NewsItem, now time.Time) []domain.NewsItem {
	out := make([]domain.NewsItem, 0, len(items))
	for _, it := range items {
		if IsDisplayable(it, now) {
			out = append(out, it)
		}
	}
	return out
}

// FilterByCourse keeps news tagged with course plus untagged news. An empty
// course keeps everything.
func FilterByCourse(items []domain.NewsItem, course string) []domain.NewsItem {
	if course == "" {
		return items
	}
	out := make([]domain.NewsItem, 0, len(items))
	for _, it := range items {
		if it.Course == "" || it.Course == course {
			out = append(out, it)
		}
	}
	return out
}

// Dwell returns the rotation dwell time of each item, in list order.
func Dwell(items []domain.NewsItem) carousel.DwellFunc {
	seconds := make([]int, len(items))
	for i, it := range items {
		seconds[i] = it.DwellSeconds()
	}
	return func(i int) time.Duration {
		if i < 0 || i >= len(seconds) {
			return time.Duration(domain.DefaultNewsDuration) * time.Second
		}
		return time.Duration(seconds[i]) * time.Second
	}
}

func expired(item domain.NewsItem, now time.Time) bool {
	return item.PublishEnd != nil && now.After(*item.PublishEnd)
}
