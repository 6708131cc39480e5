// Package sqlite stores the board data in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/githubixx/signage-go/internal/domain"
	"github.com/githubixx/signage-go/internal/ports"
	_ "modernc.org/sqlite"
)

// Store implements ports.BoardSource on SQLite.
type Store struct {
	conn  *sql.DB
	clock clockwork.Clock
}

var (
	_ ports.BoardSource = (*Store)(nil)
	_ ports.NewsWriter  = (*Store)(nil)
)

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %v", domain.ErrConnection, err)
	}
	// Enable WAL mode so the display can read while feeds write.
	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: set wal mode: %v", domain.ErrConnection, err)
	}
	s := &Store{conn: conn, clock: clockwork.NewRealClock()}
	if err := s.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// dsn enables foreign keys on every pooled connection.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// SetClock sets the clock used to stamp new news items.
func (s *Store) SetClock(clock clockwork.Clock) {
	if clock != nil {
		s.clock = clock
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS professors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		photo_url TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		subject TEXT NOT NULL,
		lab TEXT NOT NULL DEFAULT '',
		course TEXT NOT NULL DEFAULT '',
		professor_id TEXT REFERENCES professors(id) ON DELETE SET NULL
	);
	CREATE INDEX IF NOT EXISTS idx_classes_day ON classes(day_of_week, start_time);
	CREATE TABLE IF NOT EXISTS news (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL DEFAULT 'text',
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL DEFAULT 10,
		active INTEGER NOT NULL DEFAULT 1,
		publish_start INTEGER NOT NULL,
		publish_end INTEGER,
		course TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_news_window ON news(active, publish_start, publish_end);
	`
	_, err := s.conn.ExecContext(ctx, schema)
	return err
}

// --- Professor and class methods ---

// UpsertProfessor inserts the professor or replaces the one with the same ID.
func (s *Store) UpsertProfessor(ctx context.Context, p *domain.Professor) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO professors (id, name, photo_url) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, photo_url = excluded.photo_url`,
		p.ID, p.Name, p.PhotoURL)
	if err != nil {
		return fmt.Errorf("upsert professor %s: %w", p.ID, err)
	}
	return nil
}

// UpsertClass inserts the class or replaces the one with the same ID. The
// referenced professor is upserted too when it has an ID.
func (s *Store) UpsertClass(ctx context.Context, c *domain.ScheduledItem) error {
	if c == nil || c.ID == "" {
		return domain.ErrInvalidInput
	}
	var professorID any
	if c.Professor.ID != "" {
		if err := s.UpsertProfessor(ctx, &c.Professor); err != nil {
			return err
		}
		professorID = c.Professor.ID
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO classes (id, start_time, end_time, day_of_week, subject, lab, course, professor_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			day_of_week = excluded.day_of_week,
			subject = excluded.subject,
			lab = excluded.lab,
			course = excluded.course,
			professor_id = excluded.professor_id`,
		c.ID, c.StartTime, c.EndTime, c.DayOfWeek, c.Subject, c.Lab, c.Course, professorID)
	if err != nil {
		return fmt.Errorf("upsert class %s: %w", c.ID, err)
	}
	return nil
}

// GetClassesForToday returns the classes held on now's weekday ordered by
// start time.
func (s *Store) GetClassesForToday(ctx context.Context, now time.Time) ([]domain.ScheduledItem, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT c.id, c.start_time, c.end_time, c.day_of_week, c.subject, c.lab, c.course,
			COALESCE(p.id, ''), COALESCE(p.name, ''), COALESCE(p.photo_url, '')
		FROM classes c
		LEFT JOIN professors p ON p.id = c.professor_id
		WHERE c.day_of_week = ?
		ORDER BY c.start_time, c.id`, int(now.Weekday()))
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	classes := []domain.ScheduledItem{}
	for rows.Next() {
		var c domain.ScheduledItem
		if err := rows.Scan(&c.ID, &c.StartTime, &c.EndTime, &c.DayOfWeek, &c.Subject, &c.Lab, &c.Course,
			&c.Professor.ID, &c.Professor.Name, &c.Professor.PhotoURL); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// --- News methods ---

const newsColumns = `id, type, title, content, duration, active, publish_start, publish_end, course, source, created_at`

// UpsertNews inserts the item or replaces the one with the same ID. A zero
// CreatedAt is set from the store clock.
func (s *Store) UpsertNews(ctx context.Context, n *domain.NewsItem) error {
	if n == nil || n.ID == "" {
		return domain.ErrInvalidInput
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}
	typ := n.Type
	if typ == "" {
		typ = domain.NewsText
	}
	var end any
	if n.PublishEnd != nil {
		end = n.PublishEnd.Unix()
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO news (`+newsColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			title = excluded.title,
			content = excluded.content,
			duration = excluded.duration,
			active = excluded.active,
			publish_start = excluded.publish_start,
			publish_end = excluded.publish_end,
			course = excluded.course,
			source = excluded.source`,
		n.ID, string(typ), n.Title, n.Content, n.DwellSeconds(), n.Active,
		n.PublishStart.Unix(), end, n.Course, n.Source, n.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("upsert news %s: %w", n.ID, err)
	}
	return nil
}

// GetActiveNews returns active news whose publish window contains now,
// newest first.
func (s *Store) GetActiveNews(ctx context.Context, now time.Time) ([]domain.NewsItem, error) {
	ts := now.Unix()
	return s.queryNews(ctx, `
		SELECT `+newsColumns+` FROM news
		WHERE active = 1 AND publish_start <= ? AND (publish_end IS NULL OR publish_end >= ?)
		ORDER BY created_at DESC, id`, ts, ts)
}

// ListNews returns every news item, newest first.
func (s *Store) ListNews(ctx context.Context) ([]domain.NewsItem, error) {
	return s.queryNews(ctx, `SELECT `+newsColumns+` FROM news ORDER BY created_at DESC, id`)
}

func (s *Store) queryNews(ctx context.Context, query string, args ...any) ([]domain.NewsItem, error) {
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query news: %w", err)
	}
	defer rows.Close()

	items := []domain.NewsItem{}
	for rows.Next() {
		var (
			n       domain.NewsItem
			typ     string
			start   int64
			end     sql.NullInt64
			created int64
		)
		if err := rows.Scan(&n.ID, &typ, &n.Title, &n.Content, &n.Duration, &n.Active,
			&start, &end, &n.Course, &n.Source, &created); err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		n.Type = domain.NewsType(typ)
		n.PublishStart = time.Unix(start, 0).UTC()
		if end.Valid {
			t := time.Unix(end.Int64, 0).UTC()
			n.PublishEnd = &t
		}
		n.CreatedAt = time.Unix(created, 0).UTC()
		items = append(items, n)
	}
	return items, rows.Err()
}
