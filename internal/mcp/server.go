package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mpratt/devtrail/internal/domain/activity"
	"github.com/mpratt/devtrail/internal/domain/history"
	"github.com/mpratt/devtrail/internal/domain/insight"
	"github.com/mpratt/devtrail/internal/domain/workflow"
	"github.com/mpratt/devtrail/internal/logfile"
)

// RecorderService defines event-recording operations needed by MCP.
type RecorderService interface {
	Record(ctx context.Context, req activity.RecordRequest) bool
}

// TrackerService defines terminal lifecycle operations needed by MCP.
type TrackerService interface {
	Forget(terminalID string)
}

// InsightService defines summary and context operations needed by MCP.
type InsightService interface {
	Optimize(ctx context.Context) (insight.OptimizedContext, error)
	TopActivities(ctx context.Context, n int) ([]insight.ActivityCount, error)
	RecentRecords(ctx context.Context, n int) ([]logfile.Record, error)
}

// WorkflowService defines workflow analysis needed by MCP.
type WorkflowService interface {
	Analyze(records []logfile.Record) workflow.Analysis
}

// HistoryService defines archive queries needed by MCP.
type HistoryService interface {
	Query(ctx context.Context, opts history.QueryOptions) ([]history.Entry, error)
}

// RotatorService defines on-demand log maintenance needed by MCP.
type RotatorService interface {
	RotateIfNeeded(ctx context.Context) error
}

// Services contains all domain services needed by MCP.
type Services struct {
	Recorder RecorderService
	Tracker  TrackerService
	Insight  InsightService
	Workflow WorkflowService
	History  HistoryService
	Rotator  RotatorService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      WorkspaceResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "devtrail",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode is local-only: always skip auth.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware("default"))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
