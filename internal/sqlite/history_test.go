package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mpratt/devtrail/internal/domain/history"
	"github.com/stretchr/testify/require"
)

func archiveEntries(t *testing.T, repo *HistoryRepository, workspace string, n int) []history.Entry {
	t.Helper()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	entries := make([]history.Entry, n)
	for i := range entries {
		entries[i] = history.Entry{
			ID:         fmt.Sprintf("%s-e%d", workspace, i),
			Workspace:  workspace,
			Type:       "Command",
			Detail:     fmt.Sprintf("step %d", i),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			ArchivedAt: base.Add(time.Hour),
		}
	}
	require.NoError(t, repo.Archive(context.Background(), entries))
	return entries
}

func TestHistoryRepository_ArchiveQuery(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	archiveEntries(t, repo, "ws1", 3)

	entries, err := repo.Query(ctx, "ws1", history.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	require.Equal(t, "step 2", entries[0].Detail)
	require.Equal(t, "step 0", entries[2].Detail)
}

func TestHistoryRepository_WorkspaceIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	archiveEntries(t, repo, "ws1", 2)
	archiveEntries(t, repo, "ws2", 1)

	entries, err := repo.Query(ctx, "ws1", history.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Equal(t, "ws1", entry.Workspace)
	}
}

func TestHistoryRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Archive(ctx, []history.Entry{
		{ID: "e1", Workspace: "ws1", Type: "Command", Detail: "make", OccurredAt: base, ArchivedAt: base},
		{ID: "e2", Workspace: "ws1", Type: "Create", Detail: "main.go", OccurredAt: base.Add(time.Minute), ArchivedAt: base},
		{ID: "e3", Workspace: "ws1", Type: "Command", Detail: "make test", OccurredAt: base.Add(2 * time.Minute), ArchivedAt: base},
	}))

	entries, err := repo.Query(ctx, "ws1", history.QueryOptions{Type: "Command"})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.Query(ctx, "ws1", history.QueryOptions{Since: base.Add(time.Minute)})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.Query(ctx, "ws1", history.QueryOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "e3", entries[0].ID)
}

func TestHistoryRepository_ContextRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewHistoryRepository(db)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Archive(ctx, []history.Entry{
		{ID: "e1", Workspace: "ws1", Type: "Command", Detail: "ls",
			Context: `{"workspace":{"path":"/w","name":"w"}}`, OccurredAt: base, ArchivedAt: base},
		{ID: "e2", Workspace: "ws1", Type: "Create", Detail: "a.go", OccurredAt: base.Add(time.Second), ArchivedAt: base},
	}))

	entries, err := repo.Query(ctx, "ws1", history.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Empty(t, entries[0].Context)
	require.Contains(t, entries[1].Context, `"name":"w"`)
}

func TestHistoryRepository_ArchiveEmpty(t *testing.T) {
	db := NewTestDB(t)
	repo := NewHistoryRepository(db)
	require.NoError(t, repo.Archive(context.Background(), nil))
}
