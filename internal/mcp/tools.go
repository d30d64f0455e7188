package mcp

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Upstream: the host pushes observed events
		{
			Name:        "record_event",
			Description: "Record one observed developer action (command, file operation, task or debug session event)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": map[string]any{
						"type":        "string",
						"description": "Event kind",
						"enum": []string{
							"Create", "Delete", "Rename", "Command",
							"TaskStart", "TaskEnd", "DebugStart", "DebugEnd",
						},
					},
					"detail": map[string]any{
						"type":        "string",
						"description": "Command line, file path, or free-form detail (derived from task/debug fields when omitted)",
					},
					"terminal": map[string]any{
						"type":        "object",
						"description": "Terminal the event originated from",
						"properties": map[string]any{
							"id":    map[string]any{"type": "string"},
							"name":  map[string]any{"type": "string"},
							"shell": map[string]any{"type": "string"},
						},
						"required": []string{"id"},
					},
					"cwd": map[string]any{
						"type":        "string",
						"description": "Authoritative working directory for this exact execution, when known",
					},
					"exit_code": map[string]any{
						"type":        "integer",
						"description": "Command exit code",
					},
					"task_name":   map[string]any{"type": "string"},
					"task_source": map[string]any{"type": "string"},
					"debug_session_name": map[string]any{
						"type": "string",
					},
					"debug_session_type": map[string]any{
						"type": "string",
					},
				},
				"required": []string{"kind"},
			},
		},
		{
			Name:        "close_terminal",
			Description: "Drop tracked state for a terminal the host has closed",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"terminal_id": map[string]any{
						"type":        "string",
						"description": "Host terminal identifier",
					},
				},
				"required": []string{"terminal_id"},
			},
		},

		// Downstream: the suggestion generator pulls views of the log
		{
			Name:        "get_activity_context",
			Description: "Get the optimized activity payload: a ranked summary plus the most recent log lines in order",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_top_activities",
			Description: "Get the highest-ranked activities across the whole log",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of activities (default 10)",
					},
				},
			},
		},
		{
			Name:        "analyze_workflows",
			Description: "Reconstruct recent command sequences with directory usage, pattern hints, and complexity signals",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"window": map[string]any{
						"type":        "integer",
						"description": "Number of recent log lines to analyze (default 250)",
					},
				},
			},
		},
		{
			Name:        "query_history",
			Description: "Query activity entries archived from rotated-out log lines",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"description": "Filter by event type",
					},
					"since": map[string]any{
						"type":        "string",
						"description": "Only entries at or after this ISO 8601 timestamp",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of entries",
					},
				},
			},
		},
		{
			Name:        "rotate_log",
			Description: "Run log maintenance now: trim an overflowing log, archive the excess, prune old backups",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
