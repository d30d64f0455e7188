package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `devtrail turns a workspace's raw activity stream into a compact record for automation suggestions.

Core concepts:
- Activity: one observed developer action (command, file op, task run, debug event), appended to a rotating workspace log.
- Terminal CWD tracking: each terminal's working directory is inferred from execution hints and leading cd commands; pass cwd on record_event whenever the host knows it.
- Optimized context: a ranked activity summary plus the most recent log lines in order. Aggregation gives breadth, the ordered window reveals multi-step workflows.
- History archive: lines evicted by rotation are kept in a local database beyond the three file backups.

Rules of engagement:
1) Hosts push one record_event per completed action, and close_terminal when a terminal goes away.
2) Suggestion generators start with get_activity_context; it is sized for a model context budget.
3) Use analyze_workflows for sequence/pattern signals and get_top_activities for a plain ranked list.
4) query_history reaches past the rotating window when older behavior matters.
5) rotate_log exists for tests and manual maintenance; a timer already runs it.

Transport notes:
- HTTP: pass a bearer token when auth is enabled; Mcp-Session-Id identifies the caller session.
- Stdio: local only, no auth.

Docs:
- devtrail://docs/index (what to read when)
- devtrail://docs/log-format (line grammar, rotation, backups)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "devtrail://docs/index",
		Name:        "docs_index",
		Title:       "devtrail docs index",
		Description: "Entry point for agent-facing docs: the tool surface and how the views fit together.",
		Content: `# devtrail: Agent Docs Index

devtrail records workspace activity and serves two complementary views of it.

## Quick start

1. ` + "`get_activity_context`" + ` — the default payload: entry count, top-10 ranked activities, and the most recent lines in chronological order.
2. ` + "`analyze_workflows`" + ` — command sequences grouped by temporal adjacency, directory usage, pattern hints, complexity signals.
3. ` + "`get_top_activities`" + ` — just the ranked list, any size.
4. ` + "`query_history`" + ` — archived entries older than the rotating window.

## Why two views

A full log dump exceeds downstream context budgets; aggregation alone loses the
ordering needed to detect multi-step workflows. The optimized payload carries
both: aggregate breadth plus a bounded ordered window.

## Intentional limitations

- Pattern hints are heuristics. False negatives are expected; treat them as
  prompts for closer inspection, not classifications.
- Terminal identity comes from the host. If the host recycles identifiers,
  working-directory state can briefly leak across terminal instances.
`,
	},
	{
		URI:         "devtrail://docs/log-format",
		Name:        "docs_log_format",
		Title:       "devtrail log format",
		Description: "The on-disk line grammar, rotation caps, and backup naming.",
		Content: `# devtrail: Log Format

One UTF-8 line per activity at ` + "`<workspace>/.devtrail/activity.log`" + `:

    <ISO-8601 UTC ms>Z | <Type>: <detail> | Context: <json>

Types: Create, Delete, Rename, Command, TaskStart, TaskEnd, DebugStart, DebugEnd.
Context carries workspace {path,name}, optional terminal {id,name,shell,cwd},
and optional execution {exitCode}. Older logs may hold legacy lines without the
Context segment; both parse.

## Rotation

The log is trimmed to its newest 500 entries only when it exceeds both 5 MiB
and 500 non-blank lines. The full pre-trim content is kept as
` + "`activity.log.backup.<unix-millis>`" + `; the 3 newest backups survive. Evicted
lines are also archived to the history database, which ` + "`query_history`" + ` reads.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
