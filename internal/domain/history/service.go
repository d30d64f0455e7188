package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mpratt/devtrail/internal/logfile"
)

// Service archives rotated-out log lines and answers history queries.
type Service struct {
	repo      Repository
	workspace string
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a history service scoped to one workspace.
func NewService(repo Repository, workspace string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, workspace: workspace, logger: logger, now: time.Now}
}

// ArchiveEvicted parses evicted lines and stores the recognizable ones.
// Implements the rotator's archive sink.
func (s *Service) ArchiveEvicted(ctx context.Context, lines []string) error {
	records := logfile.ParseLines(lines)
	if len(records) == 0 {
		return nil
	}

	archivedAt := s.now()
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entry := Entry{
			ID:         uuid.NewString(),
			Workspace:  s.workspace,
			Type:       rec.Type,
			Detail:     rec.Detail,
			OccurredAt: rec.Timestamp,
			ArchivedAt: archivedAt,
		}
		if rec.Context != nil {
			if data, err := json.Marshal(rec.Context); err == nil {
				entry.Context = string(data)
			}
		}
		entries = append(entries, entry)
	}

	if err := s.repo.Archive(ctx, entries); err != nil {
		return fmt.Errorf("archiving %d entries: %w", len(entries), err)
	}
	s.logger.Debug("archived evicted log lines", "entries", len(entries))
	return nil
}

// Query lists archived entries for the service's workspace.
func (s *Service) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	return s.repo.Query(ctx, s.workspace, opts)
}
