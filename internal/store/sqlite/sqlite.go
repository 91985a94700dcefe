package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/okofalt/cellsync-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS bans (
	addr       TEXT PRIMARY KEY,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// IsBanned reports whether addr has an active ban.
func (s *SQLiteStore) IsBanned(ctx context.Context, addr string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM bans WHERE addr = ?`, addr).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query ban: %w", err)
	}
	return true, nil
}

// Ban inserts or refreshes a ban for addr.
func (s *SQLiteStore) Ban(ctx context.Context, addr, reason string) error {
	query := `
		INSERT INTO bans (addr, reason, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(addr) DO UPDATE SET reason = excluded.reason
	`
	if _, err := s.db.ExecContext(ctx, query, addr, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert ban: %w", err)
	}
	return nil
}

// Unban removes the ban for addr, if present.
func (s *SQLiteStore) Unban(ctx context.Context, addr string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bans WHERE addr = ?`, addr); err != nil {
		return fmt.Errorf("delete ban: %w", err)
	}
	return nil
}

// ListBans returns every active ban, newest first.
func (s *SQLiteStore) ListBans(ctx context.Context) ([]store.Ban, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT addr, reason, created_at FROM bans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list bans: %w", err)
	}
	defer rows.Close()

	var bans []store.Ban
	for rows.Next() {
		var b store.Ban
		if err := rows.Scan(&b.Addr, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ban: %w", err)
		}
		bans = append(bans, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bans: %w", err)
	}
	return bans, nil
}
