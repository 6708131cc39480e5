package feeds

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Department news</title>
  <link>https://example.org/</link>
  <item>
    <title>Exam week</title>
    <guid>exam-week</guid>
    <description>Exams start Monday.</description>
    <pubDate>Mon, 02 Mar 2026 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Open day poster</title>
    <guid>open-day</guid>
    <enclosure url="https://example.org/poster.png" length="1024" type="image/png"/>
    <pubDate>Sun, 01 Mar 2026 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>No identity</title>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcher_FetchFeed(t *testing.T) {
	srv := feedServer(t, rssFixture)
	store := ports.NewMockBoardSource()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	f := NewFetcher(store, Config{ItemTTL: 48 * time.Hour, DefaultDuration: 12, Course: "cs"}, clockwork.NewFakeClockAt(now), testLogger())

	feedURL := srv.URL + "/rss"
	n, err := f.FetchFeed(context.Background(), feedURL)
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if n != 2 {
		t.Fatalf("stored %d items, want 2", n)
	}

	items, _ := store.ListNews(context.Background())
	byID := map[string]domain.NewsItem{}
	for _, it := range items {
		byID[it.ID] = it
	}

	text, ok := byID[ItemID(feedURL, "exam-week")]
	if !ok {
		t.Fatalf("text item missing: %+v", items)
	}
	if text.Type != domain.NewsText || text.Content != "Exams start Monday." {
		t.Errorf("text item = %+v", text)
	}
	if text.Duration != 12 || !text.Active || text.Course != "cs" || text.Source != feedURL {
		t.Errorf("text item settings = %+v", text)
	}
	wantStart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	if !text.PublishStart.Equal(wantStart) {
		t.Errorf("publish start = %s, want %s", text.PublishStart, wantStart)
	}
	if text.PublishEnd == nil || !text.PublishEnd.Equal(wantStart.Add(48*time.Hour)) {
		t.Errorf("publish end = %v", text.PublishEnd)
	}

	img, ok := byID[ItemID(feedURL, "open-day")]
	if !ok {
		t.Fatalf("image item missing")
	}
	if img.Type != domain.NewsImage || img.Content != "https://example.org/poster.png" {
		t.Errorf("image item = %+v", img)
	}
}

func TestFetcher_SyncIsIdempotent(t *testing.T) {
	srv := feedServer(t, rssFixture)
	store := ports.NewMockBoardSource()
	f := NewFetcher(store, Config{URLs: []string{srv.URL + "/rss"}}, clockwork.NewFakeClock(), testLogger())

	for i := 0; i < 2; i++ {
		if err := f.Sync(context.Background()); err != nil {
			t.Fatalf("Sync #%d: %v", i+1, err)
		}
	}
	items, _ := store.ListNews(context.Background())
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 after repeated sync", len(items))
	}
	for _, it := range items {
		if it.Duration != domain.DefaultNewsDuration {
			t.Errorf("duration = %d, want default", it.Duration)
		}
		if it.PublishEnd != nil {
			t.Errorf("item %s: expected no end without ttl", it.ID)
		}
	}
}

func TestFetcher_FailingFeedDoesNotAbortOthers(t *testing.T) {
	srv := feedServer(t, rssFixture)
	store := ports.NewMockBoardSource()
	f := NewFetcher(store, Config{URLs: []string{srv.URL + "/missing", srv.URL + "/rss"}}, clockwork.NewFakeClock(), testLogger())

	err := f.Sync(context.Background())
	if !errors.Is(err, domain.ErrConnection) {
		t.Fatalf("expected ErrConnection for the failing feed, got %v", err)
	}
	items, _ := store.ListNews(context.Background())
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 from the healthy feed", len(items))
	}
}

func TestFetcher_WriterErrorIsReported(t *testing.T) {
	srv := feedServer(t, rssFixture)
	store := ports.NewMockBoardSource()
	store.UpsertNewsFunc = func(context.Context, *domain.NewsItem) error { return domain.ErrInternal }
	f := NewFetcher(store, Config{}, clockwork.NewFakeClock(), testLogger())

	n, err := f.FetchFeed(context.Background(), srv.URL+"/rss")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if n != 0 {
		t.Fatalf("stored %d, want 0", n)
	}
}

func TestFetcher_PartialWriteFailure(t *testing.T) {
	srv := feedServer(t, rssFixture)
	store := ports.NewMockBoardSource()
	failID := ItemID(srv.URL+"/rss", "open-day")
	store.UpsertNewsFunc = func(_ context.Context, item *domain.NewsItem) error {
		if item.ID == failID {
			return domain.ErrInternal
		}
		return nil
	}
	f := NewFetcher(store, Config{}, clockwork.NewFakeClock(), testLogger())

	n, err := f.FetchFeed(context.Background(), srv.URL+"/rss")
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
	if n != 1 {
		t.Fatalf("stored %d, want 1", n)
	}
}

func TestItemID_Stable(t *testing.T) {
	a := ItemID("https://example.org/rss", "x")
	if a != ItemID("https://example.org/rss", "x") {
		t.Fatalf("ItemID not deterministic")
	}
	if a == ItemID("https://example.com/rss", "x") {
		t.Fatalf("ItemID should differ between feeds")
	}
}
