package activity

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Sink receives finished events for persistence.
type Sink interface {
	Append(e Event) error
}

// CwdResolver resolves a terminal's working directory for one execution.
type CwdResolver interface {
	Resolve(terminalID, cwdHint, commandLine, workspaceRoot string) string
}

// TerminalRef identifies the terminal an event came from, as reported by
// the host.
type TerminalRef struct {
	ID    string
	Name  string
	Shell string
}

// RecordRequest describes one observed action.
type RecordRequest struct {
	Type     EventType
	Detail   string
	Terminal *TerminalRef
	// CwdHint is the authoritative working directory for this exact
	// execution, when the host knows it.
	CwdHint  string
	ExitCode *int
}

// selfReferentialMarkers identifies bookkeeping commands that touch the
// activity log itself. Writing those back would feed the log its own
// output.
var selfReferentialMarkers = []string{
	"activity.log",
	".devtrail",
}

// Service records activity events. Recording never interrupts the action it
// observes: failures are diagnosed through the logger and otherwise
// swallowed.
type Service struct {
	sink      Sink
	cwds      CwdResolver
	workspace WorkspaceInfo
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a recorder scoped to one workspace.
func NewService(sink Sink, cwds CwdResolver, workspace WorkspaceInfo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		sink:      sink,
		cwds:      cwds,
		workspace: workspace,
		logger:    logger,
		now:       time.Now,
	}
}

// Record logs one event and reports whether it was written. Empty or
// unknown event types, empty details, and self-referential bookkeeping
// commands are dropped without error.
func (s *Service) Record(_ context.Context, req RecordRequest) bool {
	if !req.Type.Valid() || strings.TrimSpace(req.Detail) == "" {
		return false
	}
	if req.Type == TypeCommand && isSelfReferential(req.Detail) {
		return false
	}

	event := Event{
		Type:      req.Type,
		Detail:    req.Detail,
		Timestamp: s.now(),
		Context:   Context{Workspace: s.workspace},
	}

	if req.Terminal != nil {
		commandLine := ""
		if req.Type == TypeCommand {
			commandLine = req.Detail
		}
		cwd := ""
		if s.cwds != nil {
			cwd = s.cwds.Resolve(req.Terminal.ID, req.CwdHint, commandLine, s.workspace.Path)
		}
		event.Context.Terminal = &TerminalInfo{
			ID:    req.Terminal.ID,
			Name:  req.Terminal.Name,
			Shell: req.Terminal.Shell,
			Cwd:   cwd,
		}
	}
	if req.ExitCode != nil {
		event.Context.Execution = &ExecutionInfo{ExitCode: req.ExitCode}
	}

	if err := s.sink.Append(event); err != nil {
		s.logger.Warn("recording activity failed",
			"type", event.Type, "detail", event.Detail, "error", err)
		return false
	}
	return true
}

func isSelfReferential(detail string) bool {
	for _, marker := range selfReferentialMarkers {
		if strings.Contains(detail, marker) {
			return true
		}
	}
	return false
}
