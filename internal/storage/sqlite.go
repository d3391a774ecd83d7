package storage

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	slogctx "github.com/veqryn/slog-context"
)

// DB is the bot's SQLite database holding generation reports and snipes.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	dsn := "file:" + path + "?" + url.Values{
		"_journal_mode": {"WAL"},
		"_busy_timeout": {"5000"},
		"_foreign_keys": {"on"},
	}.Encode()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "open %s", path)
	}

	s := &DB{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to init schema")
	}
	slogctx.Debug(ctx, "Database opened", "path", path)
	return s, nil
}

func (s *DB) Path() string {
	return s.path
}

func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			version TEXT NOT NULL,
			success INTEGER NOT NULL,
			message TEXT NOT NULL,
			logs JSON NOT NULL,
			source TEXT,
			bytes INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_version ON reports(version, created_at);`,
		`CREATE TABLE IF NOT EXISTS snipes (
			id TEXT PRIMARY KEY,
			channel TEXT NOT NULL,
			type TEXT NOT NULL,
			author_id TEXT NOT NULL,
			author_tag TEXT NOT NULL,
			author_avatar TEXT,
			content TEXT NOT NULL,
			old_content TEXT,
			timestamp INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snipes_channel ON snipes(channel, type, timestamp);`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
