// Package feeds imports RSS and Atom entries as board news.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/gofeed"

	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
)

// Config controls which feeds are imported and how their entries are shown.
type Config struct {
	URLs []string
	// ItemTTL bounds the publish window of imported items. 0 means no end.
	ItemTTL         time.Duration
	DefaultDuration int
	Course          string
	Timeout         time.Duration
}

// Fetcher parses the configured feeds and upserts their entries.
type Fetcher struct {
	writer ports.NewsWriter
	parser *gofeed.Parser
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewFetcher creates a fetcher. A nil clock uses the real clock.
func NewFetcher(writer ports.NewsWriter, cfg Config, clock clockwork.Clock, logger *slog.Logger) *Fetcher {
	if cfg.DefaultDuration < 1 {
		cfg.DefaultDuration = domain.DefaultNewsDuration
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "signage-go"
	parser.Client = &http.Client{Timeout: cfg.Timeout}
	return &Fetcher{writer: writer, parser: parser, cfg: cfg, clock: clock, logger: logger}
}

// Sync imports every configured feed. A failing feed is logged and the
// remaining feeds are still imported; the failures are returned joined.
func (f *Fetcher) Sync(ctx context.Context) error {
	var errs []error
	total := 0
	for _, u := range f.cfg.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := f.FetchFeed(ctx, u)
		total += n
		if err != nil {
			f.logger.Warn("feed import failed", slog.String("url", u), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	f.logger.Info("feeds synced", slog.Int("feeds", len(f.cfg.URLs)), slog.Int("items", total))
	return errors.Join(errs...)
}

// FetchFeed imports one feed and returns the number of entries stored.
// Entries that fail to store are skipped and their errors returned joined.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) (int, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: parse feed %s: %v", domain.ErrConnection, feedURL, err)
	}

	now := f.clock.Now()
	stored := 0
	var errs []error
	for _, entry := range parsed.Items {
		item, ok := f.newsFromEntry(feedURL, entry, now)
		if !ok {
			continue
		}
		if err := f.writer.UpsertNews(ctx, item); err != nil {
			f.logger.Error("failed to store feed item", slog.String("url", feedURL), slog.String("id", item.ID), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("store %s: %w", item.ID, err))
			continue
		}
		stored++
	}
	return stored, errors.Join(errs...)
}

func (f *Fetcher) newsFromEntry(feedURL string, entry *gofeed.Item, now time.Time) (*domain.NewsItem, bool) {
	guid := entry.GUID
	if guid == "" {
		guid = entry.Link
	}
	if guid == "" {
		return nil, false
	}

	published := now
	if entry.PublishedParsed != nil {
		published = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		published = *entry.UpdatedParsed
	}

	item := &domain.NewsItem{
		ID:           ItemID(feedURL, guid),
		Type:         domain.NewsText,
		Title:        strings.TrimSpace(entry.Title),
		Content:      strings.TrimSpace(entry.Content),
		Duration:     f.cfg.DefaultDuration,
		Active:       true,
		PublishStart: published,
		Course:       f.cfg.Course,
		Source:       feedURL,
		CreatedAt:    published,
	}
	if item.Content == "" {
		item.Content = strings.TrimSpace(entry.Description)
	}
	if image := imageURL(entry); image != "" && item.Content == "" {
		item.Type = domain.NewsImage
		item.Content = image
	}
	if item.Title == "" && item.Content == "" {
		return nil, false
	}
	if f.cfg.ItemTTL > 0 {
		end := published.Add(f.cfg.ItemTTL)
		item.PublishEnd = &end
	}
	return item, true
}

// ItemID derives a stable news ID from the feed URL and entry GUID.
func ItemID(feedURL, guid string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(feedURL+"#"+guid)).String()
}

func imageURL(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
