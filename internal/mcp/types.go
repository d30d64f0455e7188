package mcp

import (
	"github.com/mpratt/devtrail/internal/domain/history"
	"github.com/mpratt/devtrail/internal/domain/insight"
	"github.com/mpratt/devtrail/internal/domain/workflow"
)

type TerminalParams struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Shell string `json:"shell,omitempty"`
}

type RecordEventParams struct {
	Kind     string          `json:"kind"`
	Detail   string          `json:"detail,omitempty"`
	Terminal *TerminalParams `json:"terminal,omitempty"`
	Cwd      string          `json:"cwd,omitempty"`
	ExitCode *int            `json:"exit_code,omitempty"`

	TaskName   string `json:"task_name,omitempty"`
	TaskSource string `json:"task_source,omitempty"`

	DebugSessionName string `json:"debug_session_name,omitempty"`
	DebugSessionType string `json:"debug_session_type,omitempty"`
}

type RecordEventResponse struct {
	Recorded bool `json:"recorded"`
}

type CloseTerminalParams struct {
	TerminalID string `json:"terminal_id"`
}

type CloseTerminalResponse struct {
	Closed bool `json:"closed"`
}

type GetTopActivitiesParams struct {
	Limit int `json:"limit,omitempty"`
}

type TopActivitiesResponse struct {
	Activities []insight.ActivityCount `json:"activities"`
}

type AnalyzeWorkflowsParams struct {
	// Window is the number of recent log lines to analyze. Defaults to the
	// optimizer's recent window.
	Window int `json:"window,omitempty"`
}

type AnalyzeWorkflowsResponse struct {
	Analysis workflow.Analysis `json:"analysis"`
}

type QueryHistoryParams struct {
	Type  string `json:"type,omitempty"`
	Since string `json:"since,omitempty"` // ISO 8601
	Limit int    `json:"limit,omitempty"`
}

type QueryHistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

type RotateLogResponse struct {
	Completed bool `json:"completed"`
}
