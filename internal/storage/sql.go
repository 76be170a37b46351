package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SQL stores keys in a single `kv` table via database/sql. The production
// driver is modernc.org/sqlite (pure Go — no CGo, cross-compiles anywhere),
// opened in cmd/server; tests exercise this adapter against go-sqlmock, which
// is why it takes an already-open *sql.DB instead of a DSN.
//
// The never-fail contract applies here exactly as for File: query errors are
// logged and swallowed, and Set verifies its write with a read-back.
type SQL struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQL prepares the kv schema on db and returns the adapter. Like NewFile,
// schema preparation is the one failure that escapes — startup decides what
// to do about an unusable medium.
func NewSQL(db *sql.DB, logger *slog.Logger) (*SQL, error) {
	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("storage: preparing kv schema: %w", err)
	}
	return &SQL{db: db, logger: discardLogger(logger)}, nil
}

func (s *SQL) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRowContext(context.Background(),
		`SELECT value FROM kv WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		// sql.ErrNoRows just means "absent" — not worth a log line.
		if err != sql.ErrNoRows {
			s.logger.Error("storage read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	return value, true
}

func (s *SQL) Set(key, value string) {
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		s.logger.Error("storage write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if stored, ok := s.Get(key); !ok || stored != value {
		s.logger.Warn("storage verification failed - data mismatch",
			slog.String("key", key),
		)
	}
}

func (s *SQL) Remove(key string) {
	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM kv WHERE key = ?`, key,
	); err != nil {
		s.logger.Error("storage remove failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
