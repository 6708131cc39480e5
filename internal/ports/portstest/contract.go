// Package portstest holds the behavioral contract every ports.BoardSource
// implementation must satisfy.
package portstest

import (
	"context"
	"testing"
	"time"

	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
)

// SourceFactory creates a source holding the given data and returns a
// cleanup function.
type SourceFactory func(t *testing.T, classes []domain.ScheduledItem, news []domain.NewsItem) (ports.BoardSource, func())

// Monday 2026-03-02 10:00 UTC.
var refNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

// RunBoardSourceContractTests runs the contract suite against a
// BoardSource implementation.
//
// Usage:
//
//	func TestStore_Contract(t *testing.T) {
//	    portstest.RunBoardSourceContractTests(t, func(t *testing.T, c []domain.ScheduledItem, n []domain.NewsItem) (ports.BoardSource, func()) {
//	        s := newSeededStore(t, c, n)
//	        return s, func() { s.Close() }
//	    })
//	}
func RunBoardSourceContractTests(t *testing.T, factory SourceFactory) {
	t.Run("ClassesForToday", func(t *testing.T) { testClassesForToday(t, factory) })
	t.Run("ActiveNews", func(t *testing.T) { testActiveNews(t, factory) })
	t.Run("ListNews", func(t *testing.T) { testListNews(t, factory) })
	t.Run("Empty", func(t *testing.T) { testEmpty(t, factory) })
}

func fixtureClasses() []domain.ScheduledItem {
	prof := domain.Professor{ID: "p1", Name: "Ada Lovelace"}
	return []domain.ScheduledItem{
		{ID: "c3", StartTime: "14:00", EndTime: "15:40", DayOfWeek: 1, Subject: "Compilers", Lab: "Lab 3", Professor: prof},
		{ID: "c1", StartTime: "08:00", EndTime: "09:40", DayOfWeek: 1, Subject: "Algorithms", Lab: "Lab 1", Course: "cs", Professor: prof},
		{ID: "c2", StartTime: "10:00", EndTime: "11:40", DayOfWeek: 2, Subject: "Databases", Lab: "Lab 2", Professor: prof},
		{ID: "c4", StartTime: "19:00", EndTime: "20:40", DayOfWeek: 1, Subject: "Networks", Lab: "Lab 1", Professor: prof},
	}
}

func fixtureNews() []domain.NewsItem {
	end := refNow.Add(-time.Hour)
	later := refNow.Add(24 * time.Hour)
	return []domain.NewsItem{
		{ID: "n1", Type: domain.NewsText, Title: "Welcome", Content: "Hello", Duration: 5, Active: true,
			PublishStart: refNow.Add(-48 * time.Hour), CreatedAt: refNow.Add(-48 * time.Hour)},
		{ID: "n2", Type: domain.NewsImage, Title: "Poster", Content: "https://example.org/p.png", Duration: 15, Active: true,
			PublishStart: refNow.Add(-2 * time.Hour), PublishEnd: &later, CreatedAt: refNow.Add(-2 * time.Hour)},
		{ID: "n3", Type: domain.NewsText, Title: "Old", Content: "Gone", Duration: 10, Active: true,
			PublishStart: refNow.Add(-72 * time.Hour), PublishEnd: &end, CreatedAt: refNow.Add(-72 * time.Hour)},
		{ID: "n4", Type: domain.NewsText, Title: "Hidden", Content: "Off", Duration: 10, Active: false,
			PublishStart: refNow.Add(-time.Hour), CreatedAt: refNow.Add(-time.Hour)},
		{ID: "n5", Type: domain.NewsText, Title: "Soon", Content: "Tomorrow", Duration: 10, Active: true,
			PublishStart: refNow.Add(time.Hour), CreatedAt: refNow.Add(-30 * time.Minute)},
	}
}

func testClassesForToday(t *testing.T, factory SourceFactory) {
	src, cleanup := factory(t, fixtureClasses(), nil)
	defer cleanup()

	classes, err := src.GetClassesForToday(context.Background(), refNow)
	if err != nil {
		t.Fatalf("GetClassesForToday: %v", err)
	}
	ids := make([]string, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	want := []string{"c1", "c3", "c4"}
	if len(ids) != len(want) {
		t.Fatalf("classes = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("classes = %v, want %v", ids, want)
		}
	}
	if classes[0].Professor.Name != "Ada Lovelace" {
		t.Errorf("professor not populated: %+v", classes[0].Professor)
	}
	if classes[0].Course != "cs" || classes[0].Lab != "Lab 1" || classes[0].Subject != "Algorithms" {
		t.Errorf("class fields not preserved: %+v", classes[0])
	}
}

func testActiveNews(t *testing.T, factory SourceFactory) {
	src, cleanup := factory(t, nil, fixtureNews())
	defer cleanup()

	news, err := src.GetActiveNews(context.Background(), refNow)
	if err != nil {
		t.Fatalf("GetActiveNews: %v", err)
	}
	if len(news) != 2 {
		t.Fatalf("expected 2 active news, got %d: %+v", len(news), news)
	}
	if news[0].ID != "n2" || news[1].ID != "n1" {
		t.Fatalf("expected newest first [n2 n1], got [%s %s]", news[0].ID, news[1].ID)
	}
	if news[0].Type != domain.NewsImage || news[0].Duration != 15 || news[0].PublishEnd == nil {
		t.Errorf("news fields not preserved: %+v", news[0])
	}
	if news[1].PublishEnd != nil {
		t.Errorf("open-ended news must keep a nil end")
	}
}

func testListNews(t *testing.T, factory SourceFactory) {
	src, cleanup := factory(t, nil, fixtureNews())
	defer cleanup()

	news, err := src.ListNews(context.Background())
	if err != nil {
		t.Fatalf("ListNews: %v", err)
	}
	want := []string{"n5", "n4", "n2", "n1", "n3"}
	if len(news) != len(want) {
		t.Fatalf("expected %d news, got %d", len(want), len(news))
	}
	for i := range want {
		if news[i].ID != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, news[i].ID, want[i])
		}
	}
}

func testEmpty(t *testing.T, factory SourceFactory) {
	src, cleanup := factory(t, nil, nil)
	defer cleanup()

	classes, err := src.GetClassesForToday(context.Background(), refNow)
	if err != nil {
		t.Fatalf("GetClassesForToday: %v", err)
	}
	if len(classes) != 0 {
		t.Fatalf("expected no classes, got %d", len(classes))
	}
	news, err := src.GetActiveNews(context.Background(), refNow)
	if err != nil {
		t.Fatalf("GetActiveNews: %v", err)
	}
	if len(news) != 0 {
		t.Fatalf("expected no news, got %d", len(news))
	}
}
