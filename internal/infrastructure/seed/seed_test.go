package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/githubixx/signage-go/internal/adapters/secondary/sqlite"
	"github.com/githubixx/signage-go/internal/domain"
)

const fixtureYAML = `
professors:
  - id: p1
    name: Ada Lovelace
    photo_url: https://example.org/ada.jpg
classes:
  - id: c1
    start_time: "08:00"
    end_time: "09:40"
    day_of_week: 1
    subject: Algorithms
    lab: Lab 1
    professor: p1
  - id: c2
    start_time: "13:00"
    end_time: "14:40"
    day_of_week: 1
    subject: Compilers
    lab: Lab 3
news:
  - id: n1
    title: Welcome
    content: Hello department
    publish_start: 2026-03-01T00:00:00Z
  - id: n2
    type: image
    title: Poster
    content: https://example.org/poster.png
    duration: 15
    active: false
    publish_start: 2026-03-01T00:00:00Z
    publish_end: 2026-03-31T00:00:00Z
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	f, err := Load(writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.News[0].Type != "text" || f.News[0].Duration != domain.DefaultNewsDuration {
		t.Fatalf("news defaults not applied: %+v", f.News[0])
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	res, err := f.Apply(ctx, store, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res != (Result{Professors: 1, Classes: 2, News: 2}) {
		t.Fatalf("result = %+v", res)
	}

	classes, err := store.GetClassesForToday(ctx, now)
	if err != nil {
		t.Fatalf("GetClassesForToday: %v", err)
	}
	if len(classes) != 2 || classes[0].Professor.Name != "Ada Lovelace" || classes[1].Professor.ID != "" {
		t.Fatalf("classes = %+v", classes)
	}

	active, err := store.GetActiveNews(ctx, now)
	if err != nil {
		t.Fatalf("GetActiveNews: %v", err)
	}
	if len(active) != 1 || active[0].ID != "n1" {
		t.Fatalf("active news = %+v", active)
	}

	all, err := store.ListNews(ctx)
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	if len(all) != 2 || all[0].ID != "n1" || all[1].Type != domain.NewsImage || all[1].PublishEnd == nil {
		t.Fatalf("all news = %+v", all)
	}

	// Applying twice leaves the same rows.
	if _, err := f.Apply(ctx, store, now); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if all, _ := store.ListNews(ctx); len(all) != 2 {
		t.Fatalf("news after re-seed = %d", len(all))
	}
}

func TestFixturesValidate(t *testing.T) {
	tests := []struct {
		name string
		f    Fixtures
	}{
		{"professor without name", Fixtures{Professors: []domain.Professor{{ID: "p1"}}}},
		{"class bad time", Fixtures{Classes: []Class{{ID: "c1", Subject: "x", StartTime: "8:00", EndTime: "09:00"}}}},
		{"class ends first", Fixtures{Classes: []Class{{ID: "c1", Subject: "x", StartTime: "10:00", EndTime: "09:00"}}}},
		{"class weekday", Fixtures{Classes: []Class{{ID: "c1", Subject: "x", StartTime: "08:00", EndTime: "09:00", DayOfWeek: 7}}}},
		{"class unknown professor", Fixtures{Classes: []Class{{ID: "c1", Subject: "x", StartTime: "08:00", EndTime: "09:00", Professor: "p9"}}}},
		{"news without title", Fixtures{News: []News{{ID: "n1"}}}},
		{"news bad type", Fixtures{News: []News{{ID: "n1", Title: "t", Type: "video"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.f.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeFixture(t, "classes: {")); err == nil {
		t.Fatalf("expected parse error")
	}
}

type failingStore struct{}

func (failingStore) UpsertProfessor(context.Context, *domain.Professor) error  { return nil }
func (failingStore) UpsertClass(context.Context, *domain.ScheduledItem) error { return domain.ErrInternal }
func (failingStore) UpsertNews(context.Context, *domain.NewsItem) error        { return nil }

func TestApply_StopsOnStoreError(t *testing.T) {
	f := &Fixtures{Classes: []Class{{ID: "c1", Subject: "x", StartTime: "08:00", EndTime: "09:00"}}}
	res, err := f.Apply(context.Background(), failingStore{}, time.Now())
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if res.Classes != 0 {
		t.Fatalf("result = %+v", res)
	}
}
