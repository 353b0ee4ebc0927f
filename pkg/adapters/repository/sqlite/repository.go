package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// Timestamps are stored as fixed-width UTC text so that string order is
// chronological order and substr(ts, 1, 10) is the calendar day.
const timeLayout = "2006-01-02 15:04:05.000000000"

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ ports.UserRepository      = (*SQLiteRepository)(nil)
	_ ports.LinkRepository      = (*SQLiteRepository)(nil)
	_ ports.AnalyticsRepository = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	// Local sqlite allows one writer at a time.
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		profile JSON,
		is_verified INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		clicks INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_links_user_position ON links(user_id, position);

	CREATE TABLE IF NOT EXISTS analytics (
		id TEXT PRIMARY KEY,
		link_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		ip_address TEXT NOT NULL,
		user_agent TEXT,
		referrer TEXT,
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analytics_link_ts ON analytics(link_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_analytics_user_ts ON analytics(user_id, timestamp);
	`
	_, err := db.Exec(query)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// rangeClause appends inclusive timestamp bounds for the non-zero ends of r.
func rangeClause(query string, args []interface{}, start, end time.Time) (string, []interface{}) {
	if !start.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, formatTime(start))
	}
	if !end.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, formatTime(end))
	}
	return query, args
}

func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// withTx runs fn inside a transaction and commits when it returns nil.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
