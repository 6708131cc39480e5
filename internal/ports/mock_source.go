package ports

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/githubixx/signage-go/internal/domain"
)

// MockBoardSource is a flexible test double for BoardSource and NewsWriter.
//
// Usage with function fields:
//
//	mock := &ports.MockBoardSource{
//	    GetActiveNewsFunc: func(ctx context.Context, now time.Time) ([]domain.NewsItem, error) {
//	        return nil, domain.ErrConnection
//	    },
//	}
//
// Usage with builder pattern:
//
//	mock := ports.NewMockBoardSource().
//	    WithClasses([]domain.ScheduledItem{{ID: "1", StartTime: "08:00", EndTime: "09:00"}}).
//	    WithNews([]domain.NewsItem{{ID: "n1", Active: true}})
//
// Without function fields the mock filters its data the way a real store
// does: classes by weekday sorted by start time, news by active flag and
// publish window, newest first.
type MockBoardSource struct {
	GetClassesForTodayFunc func(ctx context.Context, now time.Time) ([]domain.ScheduledItem, error)
	GetActiveNewsFunc      func(ctx context.Context, now time.Time) ([]domain.NewsItem, error)
	ListNewsFunc           func(ctx context.Context) ([]domain.NewsItem, error)
	UpsertNewsFunc         func(ctx context.Context, item *domain.NewsItem) error

	mu      sync.RWMutex
	classes []domain.ScheduledItem
	news    []domain.NewsItem
}

var (
	_ BoardSource = (*MockBoardSource)(nil)
	_ NewsWriter  = (*MockBoardSource)(nil)
)

// NewMockBoardSource creates a new mock with no data.
func NewMockBoardSource() *MockBoardSource {
	return &MockBoardSource{
		classes: []domain.ScheduledItem{},
		news:    []domain.NewsItem{},
	}
}

// WithClasses sets the classes known to the mock.
func (m *MockBoardSource) WithClasses(classes []domain.ScheduledItem) *MockBoardSource {
	m.mu.Lock()
	m.classes = classes
	m.mu.Unlock()
	return m
}

// WithNews sets the news known to the mock.
func (m *MockBoardSource) WithNews(news []domain.NewsItem) *MockBoardSource {
	m.mu.Lock()
	m.news = news
	m.mu.Unlock()
	return m
}

func (m *MockBoardSource) GetClassesForToday(ctx context.Context, now time.Time) ([]domain.ScheduledItem, error) {
	if m.GetClassesForTodayFunc != nil {
		return m.GetClassesForTodayFunc(ctx, now)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	day := int(now.Weekday())
	out := make([]domain.ScheduledItem, 0, len(m.classes))
	for _, c := range m.classes {
		if c.DayOfWeek == day {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *MockBoardSource) GetActiveNews(ctx context.Context, now time.Time) ([]domain.NewsItem, error) {
	if m.GetActiveNewsFunc != nil {
		return m.GetActiveNewsFunc(ctx, now)
	}
	all, err := m.ListNews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.NewsItem, 0, len(all))
	for _, n := range all {
		if !n.Active || now.Before(n.PublishStart) {
			continue
		}
		if n.PublishEnd != nil && now.After(*n.PublishEnd) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *MockBoardSource) ListNews(ctx context.Context) ([]domain.NewsItem, error) {
	if m.ListNewsFunc != nil {
		return m.ListNewsFunc(ctx)
	}
	m.mu.RLock()
	out := append([]domain.NewsItem(nil), m.news...)
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockBoardSource) UpsertNews(ctx context.Context, item *domain.NewsItem) error {
	if m.UpsertNewsFunc != nil {
		return m.UpsertNewsFunc(ctx, item)
	}
	if item == nil || item.ID == "" {
		return domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.news {
		if n.ID == item.ID {
			m.news[i] = *item
			return nil
		}
	}
	m.news = append(m.news, *item)
	return nil
}
