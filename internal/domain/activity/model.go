package activity

import "time"

// EventType represents the type of an observed activity event.
type EventType string

const (
	TypeCreate     EventType = "Create"
	TypeDelete     EventType = "Delete"
	TypeRename     EventType = "Rename"
	TypeCommand    EventType = "Command"
	TypeTaskStart  EventType = "TaskStart"
	TypeTaskEnd    EventType = "TaskEnd"
	TypeDebugStart EventType = "DebugStart"
	TypeDebugEnd   EventType = "DebugEnd"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case TypeCreate, TypeDelete, TypeRename, TypeCommand,
		TypeTaskStart, TypeTaskEnd, TypeDebugStart, TypeDebugEnd:
		return true
	}
	return false
}

// WorkspaceInfo identifies the workspace an event belongs to.
type WorkspaceInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// TerminalInfo describes the terminal an event originated from.
// Cwd holds the resolved working directory, not the raw host hint.
type TerminalInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Shell string `json:"shell,omitempty"`
	Cwd   string `json:"cwd,omitempty"`
}

// ExecutionInfo carries command execution metadata.
type ExecutionInfo struct {
	ExitCode *int `json:"exitCode,omitempty"`
}

// Context is the structured metadata attached to a logged event.
// Terminal and Execution are present only for event types that have them.
type Context struct {
	Workspace WorkspaceInfo  `json:"workspace"`
	Terminal  *TerminalInfo  `json:"terminal,omitempty"`
	Execution *ExecutionInfo `json:"execution,omitempty"`
}

// Event is one observed developer action. Immutable once written.
type Event struct {
	Type      EventType
	Detail    string
	Timestamp time.Time
	Context   Context
}
