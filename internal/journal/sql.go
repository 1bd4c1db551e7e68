package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	migrations "github.com/inference-gateway/gridpilot/internal/journal/migrations"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const entryColumns = `id, session_id, target, found, clicked, candidate_index, candidate_label,
	attempts, radius, confidence, image_x, image_y, logical_x, logical_y, created_at`

// SQLJournal stores entries in a probe_outcomes table (SQLite or PostgreSQL)
type SQLJournal struct {
	db      *sql.DB
	dialect migrations.Dialect
}

var _ Journal = (*SQLJournal)(nil)

// NewSQLiteJournal opens (creating if needed) a SQLite journal file
func NewSQLiteJournal(cfg config.SQLiteConfig) (*SQLJournal, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_timeout=30000&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return openSQL(db, migrations.SQLite)
}

// NewPostgresJournal connects to PostgreSQL and migrates the schema
func NewPostgresJournal(cfg config.PostgresConfig) (*SQLJournal, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL at %s:%d (database %q, user %q): %w",
			cfg.Host, cfg.Port, cfg.Database, cfg.Username, err)
	}

	return openSQL(db, migrations.Postgres)
}

func openSQL(db *sql.DB, dialect migrations.Dialect) (*SQLJournal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	applied, err := migrations.NewRunner(db, dialect).Apply(ctx, migrations.For(dialect))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	if applied > 0 {
		logger.Debug("Applied journal migrations", "dialect", dialect, "count", applied)
	}

	return &SQLJournal{db: db, dialect: dialect}, nil
}

// bind rewrites ? placeholders to $n for PostgreSQL
func (s *SQLJournal) bind(query string) string {
	if s.dialect != migrations.Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record inserts an entry
func (s *SQLJournal) Record(ctx context.Context, entry Entry) error {
	e := prepare(entry)
	query := s.bind(`INSERT INTO probe_outcomes (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.SessionID, e.Target, e.Found, e.Clicked, e.CandidateIndex, e.CandidateLabel,
		e.Attempts, e.Radius, e.Confidence, e.ImageX, e.ImageY, e.LogicalX, e.LogicalY, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record probe outcome: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *SQLJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
		if s.dialect == migrations.Postgres {
			limit = 1 << 30
		}
	}

	rows, err := s.db.QueryContext(ctx,
		s.bind(`SELECT `+entryColumns+` FROM probe_outcomes ORDER BY created_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Target, &e.Found, &e.Clicked, &e.CandidateIndex,
			&e.CandidateLabel, &e.Attempts, &e.Radius, &e.Confidence, &e.ImageX, &e.ImageY,
			&e.LogicalX, &e.LogicalY, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan probe outcome: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats aggregates outcomes in the database
func (s *SQLJournal) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByCandidate: make(map[string]int)}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN found AND clicked THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT found THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN found AND NOT clicked THEN 1 ELSE 0 END), 0)
		FROM probe_outcomes`).Scan(&stats.Total, &stats.Clicked, &stats.NotFound, &stats.Missed)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate probe outcomes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT candidate_label, COUNT(*)
		FROM probe_outcomes
		WHERE found AND clicked
		GROUP BY candidate_label`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return Stats{}, fmt.Errorf("failed to scan candidate count: %w", err)
		}
		stats.ByCandidate[label] = count
	}
	return stats, rows.Err()
}

// Close closes the database
func (s *SQLJournal) Close() error {
	return s.db.Close()
}
