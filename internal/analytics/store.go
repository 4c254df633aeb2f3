// Package analytics records which tabs readers select, so maintainers can see
// which frameworks and providers the docs are read for.
package analytics

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Event is a single effective tab change.
type Event struct {
	ID         string
	Page       string
	Group      string
	Tab        string
	OccurredAt time.Time
}

// TabCount is the number of times a tab was selected.
type TabCount struct {
	Page  string `json:"page"`
	Group string `json:"group"`
	Tab   string `json:"tab"`
	Count int    `json:"count"`
}

// Store persists tab events in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for an in-memory database.
func Open(path string, logger *slog.Logger) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping analytics database: %w", err)
	}

	s := NewStore(db, logger)
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open database. The schema is not touched.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Migrate runs all pending migrations.
func (s *Store) Migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores e, filling in its ID and time when unset.
func (s *Store) Insert(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tab_events (id, page, tab_group, tab, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Page, e.Group, e.Tab, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tab event: %w", err)
	}
	s.logger.Debug("tab event stored", slog.String("page", e.Page), slog.String("group", e.Group), slog.String("tab", e.Tab))
	return nil
}

// Counts returns selection counts per tab, most selected first. An empty
// page returns counts for every page.
func (s *Store) Counts(ctx context.Context, page string) ([]TabCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page, tab_group, tab, COUNT(*) AS n
		   FROM tab_events
		  WHERE ? = '' OR page = ?
		  GROUP BY page, tab_group, tab
		  ORDER BY n DESC, page, tab_group, tab`,
		page, page,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tab counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TabCount
	for rows.Next() {
		var c TabCount
		if err := rows.Scan(&c.Page, &c.Group, &c.Tab, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tab count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, page, tab_group, tab, occurred_at FROM tab_events ORDER BY occurred_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tab events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Page, &e.Group, &e.Tab, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan tab event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
