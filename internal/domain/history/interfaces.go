package history

import "context"

// Repository provides persistence for archived activity entries.
type Repository interface {
	Archive(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, workspace string, opts QueryOptions) ([]Entry, error)
}
