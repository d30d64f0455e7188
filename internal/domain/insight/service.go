package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mpratt/devtrail/internal/logfile"
)

// OptimizedContext is the dual view handed to the suggestion generator: an
// aggregate summary for breadth plus an ordered recent window for workflow
// detection. A full dump would exceed downstream context budgets, while
// aggregation alone loses the ordering that reveals multi-step workflows.
type OptimizedContext struct {
	Summary     string   `json:"summary"`
	RecentLines []string `json:"recent_lines"`
}

// Service builds ranked summaries and optimized context payloads from the
// activity log.
type Service struct {
	store       *logfile.Store
	recentLimit int
	topN        int
	logger      *slog.Logger
}

// NewService creates an insight service. maxEntries is the log's rotation
// entry cap; the recent window is half of it.
func NewService(store *logfile.Store, maxEntries int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:       store,
		recentLimit: maxEntries / 2,
		topN:        10,
		logger:      logger,
	}
}

// Optimize reads the log and produces the summary plus the most recent
// lines in chronological order, with comment-prefixed lines filtered out.
// An absent or empty log yields an empty payload, not an error.
func (s *Service) Optimize(_ context.Context) (OptimizedContext, error) {
	lines, err := s.store.ReadLines()
	if err != nil {
		return OptimizedContext{}, err
	}

	content := contentLines(lines)
	ranked := Summarize(logfile.ParseLines(content))

	var b strings.Builder
	fmt.Fprintf(&b, "Activity log: %d entries\n", len(content))
	top := Top(ranked, s.topN)
	if len(top) > 0 {
		b.WriteString("Top activities:\n")
		for i, ac := range top {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, ac.Key, ac.Count)
		}
	}

	recent := content
	if len(recent) > s.recentLimit {
		recent = recent[len(recent)-s.recentLimit:]
	}

	return OptimizedContext{
		Summary:     strings.TrimRight(b.String(), "\n"),
		RecentLines: recent,
	}, nil
}

// TopActivities returns the n highest-ranked activities across the whole
// log.
func (s *Service) TopActivities(_ context.Context, n int) ([]ActivityCount, error) {
	lines, err := s.store.ReadLines()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.topN
	}
	return Top(Summarize(logfile.ParseLines(contentLines(lines))), n), nil
}

// RecentRecords parses the most recent n log lines.
func (s *Service) RecentRecords(_ context.Context, n int) ([]logfile.Record, error) {
	lines, err := s.store.ReadLines()
	if err != nil {
		return nil, err
	}
	content := contentLines(lines)
	if n > 0 && len(content) > n {
		content = content[len(content)-n:]
	}
	return logfile.ParseLines(content), nil
}

// contentLines drops blank and comment-prefixed lines, preserving order.
func contentLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
