package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mpratt/devtrail/internal/domain/activity"
	"github.com/mpratt/devtrail/internal/domain/history"
)

// defaultAnalysisWindow bounds how many recent records a workflow
// analysis considers when the caller does not ask for a window.
const defaultAnalysisWindow = 250

// Handler dispatches MCP commands to domain services.
type Handler struct {
	services Services
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{services: services}
}

// Handle dispatches one method call. workspaceID and sessionID come from
// the transport middleware; the engine itself is workspace-scoped at
// construction time, so they are carried for scoping and diagnostics only.
func (h *Handler) Handle(ctx context.Context, workspaceID, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "record_event":
		var req RecordEventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		recorded := h.services.Recorder.Record(ctx, buildRecordRequest(req))
		return RecordEventResponse{Recorded: recorded}, nil

	case "close_terminal":
		var req CloseTerminalParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.TerminalID == "" {
			return nil, &APIError{Code: "INVALID_INPUT", Message: "terminal_id is required"}
		}
		h.services.Tracker.Forget(req.TerminalID)
		return CloseTerminalResponse{Closed: true}, nil

	case "get_activity_context":
		payload, err := h.services.Insight.Optimize(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		return payload, nil

	case "get_top_activities":
		var req GetTopActivitiesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ranked, err := h.services.Insight.TopActivities(ctx, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return TopActivitiesResponse{Activities: ranked}, nil

	case "analyze_workflows":
		var req AnalyzeWorkflowsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Window <= 0 {
			req.Window = defaultAnalysisWindow
		}
		records, err := h.services.Insight.RecentRecords(ctx, req.Window)
		if err != nil {
			return nil, mapError(err)
		}
		return AnalyzeWorkflowsResponse{Analysis: h.services.Workflow.Analyze(records)}, nil

	case "query_history":
		var req QueryHistoryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := history.QueryOptions{Type: req.Type, Limit: req.Limit}
		if req.Since != "" {
			since, err := time.Parse(time.RFC3339, req.Since)
			if err != nil {
				return nil, &APIError{Code: "INVALID_INPUT", Message: "since must be ISO 8601"}
			}
			opts.Since = since
		}
		entries, err := h.services.History.Query(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return QueryHistoryResponse{Entries: entries}, nil

	case "rotate_log":
		if err := h.services.Rotator.RotateIfNeeded(ctx); err != nil {
			return nil, mapError(err)
		}
		return RotateLogResponse{Completed: true}, nil

	default:
		return nil, &APIError{Code: "UNKNOWN_METHOD", Message: fmt.Sprintf("unknown method %q", method)}
	}
}

// buildRecordRequest maps a host notification onto a record request. Task
// and debug notifications synthesize their detail from the session fields
// when no explicit detail is given.
func buildRecordRequest(req RecordEventParams) activity.RecordRequest {
	detail := req.Detail
	if detail == "" {
		switch {
		case req.TaskName != "":
			detail = req.TaskName
			if req.TaskSource != "" {
				detail += " (" + req.TaskSource + ")"
			}
		case req.DebugSessionName != "":
			detail = req.DebugSessionName
			if req.DebugSessionType != "" {
				detail += " (" + req.DebugSessionType + ")"
			}
		}
	}

	out := activity.RecordRequest{
		Type:     activity.EventType(req.Kind),
		Detail:   detail,
		CwdHint:  req.Cwd,
		ExitCode: req.ExitCode,
	}
	if req.Terminal != nil {
		out.Terminal = &activity.TerminalRef{
			ID:    req.Terminal.ID,
			Name:  req.Terminal.Name,
			Shell: req.Terminal.Shell,
		}
	}
	return out
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
