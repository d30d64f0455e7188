package tracker

import (
	"log/slog"
	"path/filepath"
	"regexp"
)

// Service infers each terminal's current working directory from the partial
// signals the host provides: per-execution CWD hints, leading `cd` commands,
// and previously resolved state.
//
// Terminal identity is assumed stable for a live terminal. If the host
// recycles identifiers, a new terminal can inherit state from a closed one
// until the close notification arrives.
type Service struct {
	store    StateStore
	fallback string
	logger   *slog.Logger
}

// NewService creates a tracker. fallback is the process-level directory used
// when no other signal exists (typically the server's own working
// directory).
func NewService(store StateStore, fallback string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, fallback: fallback, logger: logger}
}

// leadingCd matches a `cd` anchored at the start of a command line, before
// any chaining operator. Quoted and bare paths are both accepted.
var leadingCd = regexp.MustCompile(`^\s*cd\s+(?:"([^"]+)"|'([^']+)'|([^\s;&|]+))`)

// Resolve returns the working directory for one execution and stores it for
// the next lookup. Priority, highest first: the host's CWD hint for this
// exact execution; a leading `cd` in the command (absolute paths verbatim,
// relative ones against the last known CWD or the workspace root); the last
// known CWD; the workspace root; the process fallback.
func (s *Service) Resolve(terminalID, cwdHint, commandLine, workspaceRoot string) string {
	stored, hasStored := "", false
	if terminalID != "" {
		stored, hasStored = s.store.Get(terminalID)
	}

	cwd := ""
	switch {
	case cwdHint != "":
		cwd = cwdHint
	case s.cdTarget(commandLine) != "":
		target := s.cdTarget(commandLine)
		if filepath.IsAbs(target) {
			cwd = target
		} else {
			base := workspaceRoot
			if hasStored {
				base = stored
			}
			cwd = filepath.Join(base, target)
		}
	case hasStored:
		cwd = stored
	case workspaceRoot != "":
		cwd = workspaceRoot
	default:
		cwd = s.fallback
	}

	if terminalID != "" && cwd != "" {
		s.store.Set(terminalID, cwd)
	}
	return cwd
}

// Forget drops the stored state for a closed terminal.
func (s *Service) Forget(terminalID string) {
	s.store.Delete(terminalID)
	s.logger.Debug("forgot terminal state", "terminal", terminalID)
}

func (s *Service) cdTarget(commandLine string) string {
	m := leadingCd.FindStringSubmatch(commandLine)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}
