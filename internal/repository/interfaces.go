package repository

import (
	"context"

	"github.com/mpratt/devtrail/internal/domain/history"
)

// HistoryRepository manages archived activity persistence.
type HistoryRepository interface {
	Archive(ctx context.Context, entries []history.Entry) error
	Query(ctx context.Context, workspace string, opts history.QueryOptions) ([]history.Entry, error)
}
