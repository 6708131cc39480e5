package ports

import (
	"context"
	"time"

	"github.com/githubixx/signage-go/internal/domain"
)

// BoardSource defines the data the board reads from its backing store
type BoardSource interface {
	// GetClassesForToday returns the classes held on now's weekday,
	// ordered by start time
	GetClassesForToday(ctx context.Context, now time.Time) ([]domain.ScheduledItem, error)

	// GetActiveNews returns active news whose publish window contains now,
	// newest first
	GetActiveNews(ctx context.Context, now time.Time) ([]domain.NewsItem, error)

	// ListNews returns every news item, newest first
	ListNews(ctx context.Context) ([]domain.NewsItem, error)
}

// NewsWriter stores news items imported from outside the admin UI
type NewsWriter interface {
	// UpsertNews inserts the item or replaces the one with the same ID
	UpsertNews(ctx context.Context, item *domain.NewsItem) error
}
