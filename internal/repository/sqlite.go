package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"tutor-agent/internal/domain"
)

const createInteractionsTable = `
	CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		session_id TEXT NOT NULL,
		persona TEXT NOT NULL,
		user_message TEXT NOT NULL,
		assistant_reply TEXT NOT NULL,
		tokens_used INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_session_id ON interactions(session_id);
`

// SQLiteStore is the Interaction recorder backed by a local SQLite database.
// The table is append-only: rows are inserted one per successful exchange
// and never updated or deleted here.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path, ensuring the parent
// directory and the interactions schema exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("repository: open db at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: ping db at %s: %w", path, err)
	}
	if _, err := db.Exec(createInteractionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Record inserts one interaction row, committed immediately.
func (s *SQLiteStore) Record(ctx context.Context, in domain.Interaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interactions (timestamp, session_id, persona, user_message, assistant_reply, tokens_used)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Timestamp.UTC(), in.SessionID, in.Persona, in.UserMessage, in.AssistantReply, in.TokensUsed,
	)
	if err != nil {
		return fmt.Errorf("repository: insert interaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
