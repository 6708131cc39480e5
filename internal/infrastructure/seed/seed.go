// Package seed loads professors, classes and news from a YAML fixture file.
package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
)

// Store is the write side needed to apply fixtures.
type Store interface {
	ports.NewsWriter
	UpsertProfessor(ctx context.Context, p *domain.Professor) error
	UpsertClass(ctx context.Context, c *domain.ScheduledItem) error
}

// Fixtures is the content of a fixture file.
type Fixtures struct {
	Professors []domain.Professor `yaml:"professors"`
	Classes    []Class            `yaml:"classes"`
	News       []News             `yaml:"news"`
}

// Class references its professor by ID.
type Class struct {
	ID        string `yaml:"id"`
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`
	DayOfWeek int    `yaml:"day_of_week"`
	Subject   string `yaml:"subject"`
	Lab       string `yaml:"lab"`
	Course    string `yaml:"course"`
	Professor string `yaml:"professor"`
}

// News is a fixture news item. Active defaults to true.
type News struct {
	ID           string     `yaml:"id"`
	Type         string     `yaml:"type"`
	Title        string     `yaml:"title"`
	Content      string     `yaml:"content"`
	Duration     int        `yaml:"duration"`
	Active       *bool      `yaml:"active"`
	PublishStart time.Time  `yaml:"publish_start"`
	PublishEnd   *time.Time `yaml:"publish_end"`
	Course       string     `yaml:"course"`
}

// Result counts the rows written by Apply.
type Result struct {
	Professors int
	Classes    int
	News       int
}

// Load reads and validates a fixture file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks IDs, time formats, weekdays, references and news types.
// Missing news types and durations are filled in.
func (f *Fixtures) Validate() error {
	profs := make(map[string]bool, len(f.Professors))
	for i, p := range f.Professors {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("%w: professor #%d needs id and name", domain.ErrInvalidInput, i+1)
		}
		profs[p.ID] = true
	}

	for i, c := range f.Classes {
		if c.ID == "" || c.Subject == "" {
			return fmt.Errorf("%w: class #%d needs id and subject", domain.ErrInvalidInput, i+1)
		}
		if !domain.ValidClock(c.StartTime) || !domain.ValidClock(c.EndTime) {
			return fmt.Errorf("%w: class %s: times must be HH:MM, got %q-%q", domain.ErrInvalidInput, c.ID, c.StartTime, c.EndTime)
		}
		if c.StartTime > c.EndTime {
			return fmt.Errorf("%w: class %s ends before it starts", domain.ErrInvalidInput, c.ID)
		}
		if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
			return fmt.Errorf("%w: class %s: day_of_week %d (must be 0-6)", domain.ErrInvalidInput, c.ID, c.DayOfWeek)
		}
		if c.Professor != "" && !profs[c.Professor] {
			return fmt.Errorf("%w: class %s: unknown professor %q", domain.ErrInvalidInput, c.ID, c.Professor)
		}
	}

	for i := range f.News {
		n := &f.News[i]
		if n.ID == "" || n.Title == "" {
			return fmt.Errorf("%w: news #%d needs id and title", domain.ErrInvalidInput, i+1)
		}
		switch domain.NewsType(n.Type) {
		case "":
			n.Type = string(domain.NewsText)
		case domain.NewsText, domain.NewsImage:
			// ok
		default:
			return fmt.Errorf("%w: news %s: type %q (must be text or image)", domain.ErrInvalidInput, n.ID, n.Type)
		}
		if n.Duration <= 0 {
			n.Duration = domain.DefaultNewsDuration
		}
		if n.PublishEnd != nil && n.PublishEnd.Before(n.PublishStart) {
			return fmt.Errorf("%w: news %s ends before it starts", domain.ErrInvalidInput, n.ID)
		}
	}
	return nil
}

// Apply upserts the fixtures into store. News without a publish start is
// published from now.
func (f *Fixtures) Apply(ctx context.Context, store Store, now time.Time) (Result, error) {
	var res Result
	profs := make(map[string]domain.Professor, len(f.Professors))
	for i := range f.Professors {
		p := f.Professors[i]
		if err := store.UpsertProfessor(ctx, &p); err != nil {
			return res, fmt.Errorf("seed professor %s: %w", p.ID, err)
		}
		profs[p.ID] = p
		res.Professors++
	}

	for _, c := range f.Classes {
		item := domain.ScheduledItem{
			ID:        c.ID,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			DayOfWeek: c.DayOfWeek,
			Subject:   c.Subject,
			Lab:       c.Lab,
			Course:    c.Course,
			Professor: profs[c.Professor],
		}
		if err := store.UpsertClass(ctx, &item); err != nil {
			return res, fmt.Errorf("seed class %s: %w", c.ID, err)
		}
		res.Classes++
	}

	for i, n := range f.News {
		active := n.Active == nil || *n.Active
		start := n.PublishStart
		if start.IsZero() {
			start = now
		}
		item := domain.NewsItem{
			ID:           n.ID,
			Type:         domain.NewsType(n.Type),
			Title:        n.Title,
			Content:      n.Content,
			Duration:     n.Duration,
			Active:       active,
			PublishStart: start,
			PublishEnd:   n.PublishEnd,
			Course:       n.Course,
			// Keep file order as newest-first order.
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
		if err := store.UpsertNews(ctx, &item); err != nil {
			return res, fmt.Errorf("seed news %s: %w", n.ID, err)
		}
		res.News++
	}
	return res, nil
}
