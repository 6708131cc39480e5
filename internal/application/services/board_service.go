package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/githubixx/signage-go/internal/application/carousel"
	"github.com/githubixx/signage-go/internal/application/news"
	"github.com/githubixx/signage-go/internal/application/schedule"
	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
)

// Carousel names accepted by Advance and Retreat.
const (
	CarouselClasses = "classes"
	CarouselNews    = "news"
)

// newsSteps is the number of progress ticks per news dwell period.
const newsSteps = carousel.MaxProgress

// FeedSyncer imports external news into the board source.
type FeedSyncer interface {
	Sync(ctx context.Context) error
}

// BoardConfig holds the display settings of a BoardService.
type BoardConfig struct {
	Location        *time.Location
	Course          string
	PageSize        int
	ClassInterval   time.Duration
	RefreshInterval time.Duration
	FeedInterval    time.Duration
}

func (c *BoardConfig) setDefaults() {
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.PageSize < 1 {
		c.PageSize = 3
	}
	if c.ClassInterval <= 0 {
		c.ClassInterval = 7 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = time.Minute
	}
	if c.FeedInterval <= 0 {
		c.FeedInterval = 15 * time.Minute
	}
}

// ClassRow is a class on the current page with its flat index in the
// shift-filtered list.
type ClassRow struct {
	domain.ScheduledItem
	Index  int  `json:"index"`
	Active bool `json:"active"`
}

// ScheduleView is what the schedule panel renders.
type ScheduleView struct {
	Shift       domain.Shift             `json:"shift"`
	Label       string                   `json:"label"`
	Now         string                   `json:"now"`
	Classes     []domain.ScheduledItem   `json:"classes"`
	Active      []int                    `json:"active"`
	Pages       [][]domain.ScheduledItem `json:"pages"`
	ActivePages []int                    `json:"active_pages"`
	CurrentPage []ClassRow               `json:"current_page"`
	PageActive  bool                     `json:"page_active"`
	Carousel    carousel.Snapshot        `json:"carousel"`
	RefreshedAt time.Time                `json:"refreshed_at"`
}

// NewsView is what the news panel renders. Current is nil when there is
// nothing to show.
type NewsView struct {
	Current  *domain.NewsItem  `json:"current"`
	Carousel carousel.Snapshot `json:"carousel"`
}

// NewsRow is a news item with its single status label.
type NewsRow struct {
	domain.NewsItem
	Status domain.NewsStatus `json:"status"`
}

// BoardService keeps the shift-filtered schedule, the displayable news and
// the two rotations that page through them.
type BoardService struct {
	source ports.BoardSource
	clock  clockwork.Clock
	logger *slog.Logger
	cfg    BoardConfig

	feedsMu sync.RWMutex
	feeds   FeedSyncer

	mu          sync.RWMutex
	shift       domain.Shift
	now         string
	classes     []domain.ScheduledItem
	active      []int
	pages       [][]domain.ScheduledItem
	activePages []int
	news        []domain.NewsItem
	classSig    string
	newsSig     string
	refreshedAt time.Time

	classCarousel *carousel.Controller
	newsCarousel  *carousel.Controller
}

// NewBoardService creates a board service. A nil clock uses the real clock.
func NewBoardService(source ports.BoardSource, cfg BoardConfig, clock clockwork.Clock, logger *slog.Logger) *BoardService {
	cfg.setDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardService{
		source:        source,
		clock:         clock,
		logger:        logger,
		cfg:           cfg,
		classes:       []domain.ScheduledItem{},
		active:        []int{},
		pages:         [][]domain.ScheduledItem{},
		activePages:   []int{},
		news:          []domain.NewsItem{},
		classCarousel: carousel.NewController(CarouselClasses, 1, carousel.ConstantDwell(cfg.ClassInterval)),
		newsCarousel:  carousel.NewController(CarouselNews, newsSteps, nil),
	}
}

// SetFeedSyncer configures the importer run by the feed job. Nil disables it.
func (s *BoardService) SetFeedSyncer(f FeedSyncer) {
	s.feedsMu.Lock()
	s.feeds = f
	s.feedsMu.Unlock()
}

func (s *BoardService) feedSyncer() FeedSyncer {
	s.feedsMu.RLock()
	defer s.feedsMu.RUnlock()
	return s.feeds
}

// Refresh reloads classes and news and recomputes shift, active set and
// pages. A rotation restarts only when its page or item list changed. When
// the source fails the previous lists are kept and the error is returned.
func (s *BoardService) Refresh(ctx context.Context) error {
	now := s.clock.Now().In(s.cfg.Location)

	var errs []error
	classes, classErr := s.source.GetClassesForToday(ctx, now)
	if classErr != nil {
		s.logger.Error("failed to load classes", slog.Any("error", classErr))
		errs = append(errs, fmt.Errorf("load classes: %w", classErr))
	}
	items, newsErr := s.source.GetActiveNews(ctx, now)
	if newsErr != nil {
		s.logger.Error("failed to load news", slog.Any("error", newsErr))
		errs = append(errs, fmt.Errorf("load news: %w", newsErr))
	}

	shift := schedule.ClassifyShift(now.Hour())
	hhmm := domain.ClockString(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.shift = shift
	s.now = hhmm
	if classErr == nil {
		filtered := schedule.FilterByShift(schedule.FilterByCourse(classes, s.cfg.Course), shift)
		pages := carousel.Paginate(filtered, s.cfg.PageSize)
		s.classes = filtered
		s.pages = pages
		if sig := classSignature(filtered, s.cfg.PageSize); sig != s.classSig {
			s.classSig = sig
			s.classCarousel.SetSource(len(pages), nil)
			s.logger.Debug("class rotation reset", slog.Int("classes", len(filtered)), slog.Int("pages", len(pages)))
		}
	}
	s.active = schedule.ActiveIndices(s.classes, hhmm)
	s.activePages = carousel.PagesOf(s.active, s.cfg.PageSize)

	if newsErr == nil {
		shown := news.Displayable(news.FilterByCourse(items, s.cfg.Course), now)
		s.news = shown
		if sig := newsSignature(shown); sig != s.newsSig {
			s.newsSig = sig
			s.newsCarousel.SetSource(len(shown), news.Dwell(shown))
			s.logger.Debug("news rotation reset", slog.Int("items", len(shown)))
		}
	}
	s.refreshedAt = now

	return errors.Join(errs...)
}

func classSignature(classes []domain.ScheduledItem, pageSize int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(pageSize))
	for _, c := range classes {
		b.WriteByte('|')
		b.WriteString(c.ID)
	}
	return b.String()
}

func newsSignature(items []domain.NewsItem) string {
	var b strings.Builder
	for _, n := range items {
		b.WriteString(n.ID)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n.DwellSeconds()))
		b.WriteByte('|')
	}
	return b.String()
}

// ScheduleView returns the current schedule panel state.
func (s *BoardService) ScheduleView() ScheduleView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.classCarousel.Snapshot()
	v := ScheduleView{
		Shift:       s.shift,
		Label:       s.shift.Label(),
		Now:         s.now,
		Classes:     s.classes,
		Active:      s.active,
		Pages:       s.pages,
		ActivePages: s.activePages,
		CurrentPage: []ClassRow{},
		Carousel:    snap,
		RefreshedAt: s.refreshedAt,
	}
	if snap.Index < len(s.pages) {
		base := snap.Index * s.cfg.PageSize
		for i, c := range s.pages[snap.Index] {
			row := ClassRow{ScheduledItem: c, Index: base + i, Active: schedule.IsActive(s.active, base+i)}
			v.CurrentPage = append(v.CurrentPage, row)
		}
		v.PageActive = schedule.IsActive(s.activePages, snap.Index)
	}
	return v
}

// NewsView returns the current news panel state.
func (s *BoardService) NewsView() NewsView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.newsCarousel.Snapshot()
	v := NewsView{Carousel: snap}
	if snap.Index < len(s.news) {
		item := s.news[snap.Index]
		v.Current = &item
	}
	return v
}

// Advance moves the named rotation forward by one entry.
func (s *BoardService) Advance(name string) error {
	c, err := s.carousel(name)
	if err != nil {
		return err
	}
	c.Advance()
	return nil
}

// Retreat moves the named rotation back by one entry.
func (s *BoardService) Retreat(name string) error {
	c, err := s.carousel(name)
	if err != nil {
		return err
	}
	c.Retreat()
	return nil
}

func (s *BoardService) carousel(name string) (*carousel.Controller, error) {
	switch name {
	case CarouselClasses:
		return s.classCarousel, nil
	case CarouselNews:
		return s.newsCarousel, nil
	default:
		return nil, fmt.Errorf("carousel %q: %w", name, domain.ErrNotFound)
	}
}

// NewsStatuses returns every news item with its status label, newest first.
func (s *BoardService) NewsStatuses(ctx context.Context) ([]NewsRow, error) {
	items, err := s.source.ListNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	now := s.clock.Now()
	rows := make([]NewsRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, NewsRow{NewsItem: it, Status: news.Classify(it, now)})
	}
	return rows, nil
}

// NewsStats counts every news item per status bucket.
func (s *BoardService) NewsStats(ctx context.Context) (domain.NewsStats, error) {
	items, err := s.source.ListNews(ctx)
	if err != nil {
		return domain.NewsStats{}, fmt.Errorf("list news: %w", err)
	}
	return news.AggregateStats(items, s.clock.Now()), nil
}

// Run refreshes the board once, starts both rotations and schedules the
// refresh and feed jobs. It blocks until ctx is cancelled and returns after
// every job and timer has stopped.
func (s *BoardService) Run(ctx context.Context) error {
	_ = s.Refresh(ctx)

	sched, err := gocron.NewScheduler(
		gocron.WithClock(s.clock),
		gocron.WithLocation(s.cfg.Location),
		gocron.WithLogger(s.logger),
	)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.cfg.RefreshInterval),
		gocron.NewTask(func() { _ = s.Refresh(ctx) }),
		gocron.WithName("board-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule refresh: %w", err)
	}

	if s.feedSyncer() != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(s.cfg.FeedInterval),
			gocron.NewTask(func() { s.syncFeeds(ctx) }),
			gocron.WithName("feed-sync"),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return fmt.Errorf("schedule feed sync: %w", err)
		}
	}

	classRunner := s.classCarousel.Start(ctx, s.clock)
	defer classRunner.Stop()
	newsRunner := s.newsCarousel.Start(ctx, s.clock)
	defer newsRunner.Stop()

	sched.Start()
	s.logger.Info("board started",
		slog.Duration("refresh_interval", s.cfg.RefreshInterval),
		slog.Duration("class_interval", s.cfg.ClassInterval),
		slog.String("location", s.cfg.Location.String()))

	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		s.logger.Warn("scheduler shutdown", slog.Any("error", err))
	}
	s.logger.Info("board stopped")
	return nil
}

func (s *BoardService) syncFeeds(ctx context.Context) {
	f := s.feedSyncer()
	if f == nil {
		return
	}
	if err := f.Sync(ctx); err != nil {
		s.logger.Warn("feed sync failed", slog.Any("error", err))
	}
	_ = s.Refresh(ctx)
}
