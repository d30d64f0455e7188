package logfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RotationPolicy bounds the log file. A trim happens only when both the
// byte and entry caps are exceeded.
type RotationPolicy struct {
	MaxBytes   int64
	MaxEntries int
	MaxBackups int
}

// DefaultRotationPolicy caps the log at 5 MiB / 500 entries with 3 backups.
func DefaultRotationPolicy() RotationPolicy {
	return RotationPolicy{
		MaxBytes:   5 * 1024 * 1024,
		MaxEntries: 500,
		MaxBackups: 3,
	}
}

// ArchiveSink receives lines evicted by a trim. Implementations must not
// block rotation on failure; the rotator only diagnoses sink errors.
type ArchiveSink interface {
	ArchiveEvicted(ctx context.Context, lines []string) error
}

// Rotator enforces the rotation policy on a log store.
type Rotator struct {
	store   *Store
	policy  RotationPolicy
	archive ArchiveSink
	logger  *slog.Logger

	// Now is the clock used to stamp backup files. Overridable in tests.
	Now func() time.Time
}

// NewRotator creates a rotator. archive may be nil.
func NewRotator(store *Store, policy RotationPolicy, archive ArchiveSink, logger *slog.Logger) *Rotator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rotator{
		store:   store,
		policy:  policy,
		archive: archive,
		logger:  logger,
		Now:     time.Now,
	}
}

// RotateIfNeeded trims the log to its most recent entries when it exceeds
// both caps. The full pre-trim content is preserved as a timestamped backup
// before the file is overwritten, and old backups are pruned. Safe to call
// on a timer; a missing log file is not an error.
func (r *Rotator) RotateIfNeeded(ctx context.Context) error {
	trimmed := false

	err := r.store.Update(func(content []byte) ([]byte, bool, error) {
		if int64(len(content)) <= r.policy.MaxBytes {
			return nil, false, nil
		}
		lines := nonBlankLines(content)
		if len(lines) <= r.policy.MaxEntries {
			// Large file with few entries: leave it alone.
			return nil, false, nil
		}

		backupPath := fmt.Sprintf("%s.backup.%d", r.store.Path(), r.Now().UnixMilli())
		if err := os.WriteFile(backupPath, content, 0o644); err != nil {
			return nil, false, fmt.Errorf("writing backup %s: %w", backupPath, err)
		}

		cut := len(lines) - r.policy.MaxEntries
		r.archiveEvicted(ctx, lines[:cut])

		kept := lines[cut:]
		trimmed = true
		r.logger.Info("rotated activity log",
			"path", r.store.Path(), "evicted", cut, "kept", len(kept), "backup", backupPath)
		return []byte(strings.Join(kept, "\n") + "\n"), true, nil
	})
	if err != nil {
		return err
	}

	if trimmed {
		if err := r.pruneBackups(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rotator) archiveEvicted(ctx context.Context, lines []string) {
	if r.archive == nil || len(lines) == 0 {
		return
	}
	if err := r.archive.ArchiveEvicted(ctx, lines); err != nil {
		r.logger.Warn("archiving evicted log lines failed", "error", err)
	}
}

// pruneBackups deletes all but the newest MaxBackups backup files, ordered
// by the timestamp embedded in the file name.
func (r *Rotator) pruneBackups() error {
	matches, err := filepath.Glob(r.store.Path() + ".backup.*")
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	type backup struct {
		path  string
		stamp int64
	}
	backups := make([]backup, 0, len(matches))
	for _, match := range matches {
		suffix := match[strings.LastIndex(match, ".")+1:]
		stamp, err := strconv.ParseInt(suffix, 10, 64)
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: match, stamp: stamp})
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].stamp > backups[j].stamp })

	for _, old := range backups[min(len(backups), r.policy.MaxBackups):] {
		if err := os.Remove(old.path); err != nil {
			return fmt.Errorf("pruning backup %s: %w", old.path, err)
		}
	}
	return nil
}

func nonBlankLines(content []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
