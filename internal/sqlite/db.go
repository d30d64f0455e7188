package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema. Idempotent; run at every startup.
func (db *DB) Migrate() error {
	migration := `
-- Archived activity entries, retained after log rotation evicts them
CREATE TABLE IF NOT EXISTS activity_history (
    id TEXT PRIMARY KEY,
    workspace TEXT NOT NULL,
    event_type TEXT NOT NULL,
    detail TEXT NOT NULL,
    context TEXT,
    occurred_at TIMESTAMP NOT NULL,
    archived_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_workspace ON activity_history(workspace);
CREATE INDEX IF NOT EXISTS idx_history_occurred ON activity_history(occurred_at);
CREATE INDEX IF NOT EXISTS idx_history_type ON activity_history(event_type);

-- Bearer tokens for HTTP transport, resolving to a workspace scope
CREATE TABLE IF NOT EXISTS workspace_keys (
    key_hash TEXT PRIMARY KEY,
    workspace TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_workspace_keys ON workspace_keys(workspace);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
