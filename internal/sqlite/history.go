package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mpratt/devtrail/internal/domain/history"
)

// HistoryRepository implements repository.HistoryRepository for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Archive inserts archived entries in one transaction
func (r *HistoryRepository) Archive(ctx context.Context, entries []history.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activity_history (
			id, workspace, event_type, detail, context, occurred_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		var contextJSON any
		if entry.Context != "" {
			contextJSON = entry.Context
		}
		if _, err := stmt.ExecContext(ctx,
			entry.ID,
			entry.Workspace,
			entry.Type,
			entry.Detail,
			contextJSON,
			entry.OccurredAt,
			entry.ArchivedAt,
		); err != nil {
			return fmt.Errorf("failed to archive entry %s: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}

// Query returns archived entries matching the given filters, newest first
func (r *HistoryRepository) Query(ctx context.Context, workspace string, opts history.QueryOptions) ([]history.Entry, error) {
	query := `
		SELECT id, workspace, event_type, detail, context, occurred_at, archived_at
		FROM activity_history
		WHERE workspace = ?
	`

	args := []any{workspace}
	if opts.Type != "" {
		query += " AND event_type = ?"
		args = append(args, opts.Type)
	}
	if !opts.Since.IsZero() {
		query += " AND occurred_at >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY occurred_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var entry history.Entry
		var contextJSON sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.Workspace,
			&entry.Type,
			&entry.Detail,
			&contextJSON,
			&entry.OccurredAt,
			&entry.ArchivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if contextJSON.Valid {
			entry.Context = contextJSON.String
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
