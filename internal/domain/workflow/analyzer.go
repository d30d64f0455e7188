package workflow

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mpratt/devtrail/internal/domain/activity"
	"github.com/mpratt/devtrail/internal/logfile"
)

const (
	// adjacencyWindow is the maximum gap between two commands that still
	// belong to the same sequence.
	adjacencyWindow = 120 * time.Second
	// maxSequenceLen caps how many commands one sequence may hold.
	maxSequenceLen = 5
	// minSequenceLen drops single-command "sequences".
	minSequenceLen = 2
	// rootTag is the sentinel for the workspace root itself.
	rootTag = "root"
)

// Analyzer reconstructs workflow signals from recent activity records.
type Analyzer struct {
	workspaceRoot string
	rules         []PatternRule
}

// NewAnalyzer creates an analyzer for a workspace. When rules is nil the
// default rule set applies.
func NewAnalyzer(workspaceRoot string, rules []PatternRule) *Analyzer {
	if rules == nil {
		rules = DefaultPatternRules()
	}
	return &Analyzer{workspaceRoot: workspaceRoot, rules: rules}
}

// Analyze processes records chronologically and derives command sequences,
// directory usage, matched patterns, and complexity signals.
func (a *Analyzer) Analyze(records []logfile.Record) Analysis {
	sequences := a.buildSequences(records)
	usage := a.directoryUsage(records)

	return Analysis{
		Sequences:      sequences,
		DirectoryUsage: usage,
		Patterns:       a.matchPatterns(sequences),
		Complexity: Complexity{
			MultipleDirectories: len(usage) > 2,
			LongSequences:       hasLongSequence(sequences),
			RepeatedCommands:    hasRepeatedCommand(sequences),
		},
	}
}

// buildSequences groups command records by temporal adjacency: a record
// extends the open sequence when it falls within the adjacency window of
// the previous one and the sequence is under the length cap; otherwise the
// open sequence is flushed and a new one starts. Sequences shorter than two
// elements are discarded.
func (a *Analyzer) buildSequences(records []logfile.Record) []Sequence {
	var (
		sequences []Sequence
		open      Sequence
		lastTime  time.Time
	)

	flush := func() {
		if len(open.Elements) >= minSequenceLen {
			sequences = append(sequences, open)
		}
		open = Sequence{}
	}

	for _, rec := range records {
		if rec.Type != string(activity.TypeCommand) {
			continue
		}

		if len(open.Elements) > 0 &&
			(rec.Timestamp.Sub(lastTime) >= adjacencyWindow || len(open.Elements) >= maxSequenceLen) {
			flush()
		}

		if len(open.Elements) == 0 {
			open.Start = rec.Timestamp
		}
		open.End = rec.Timestamp
		open.Elements = append(open.Elements, Element{
			Command:      rec.Detail,
			DirectoryTag: a.elementTag(recordCwd(rec)),
		})
		lastTime = rec.Timestamp
	}
	flush()

	return sequences
}

// directoryUsage counts occurrences per directory, relative to the
// workspace root, across all records that carry a working directory.
// Command details are collected per directory, deduplicated.
func (a *Analyzer) directoryUsage(records []logfile.Record) map[string]DirectoryUsage {
	usage := make(map[string]DirectoryUsage)
	for _, rec := range records {
		cwd := recordCwd(rec)
		if cwd == "" {
			continue
		}
		key := a.relativeDir(cwd)
		entry := usage[key]
		entry.Count++
		if rec.Type == string(activity.TypeCommand) && !slices.Contains(entry.Commands, rec.Detail) {
			entry.Commands = append(entry.Commands, rec.Detail)
		}
		usage[key] = entry
	}
	return usage
}

func (a *Analyzer) matchPatterns(sequences []Sequence) []string {
	var matched []string
	for _, rule := range a.rules {
		for _, seq := range sequences {
			if rule.Matches(seq) {
				matched = append(matched, rule.Name)
				break
			}
		}
	}
	return matched
}

func (a *Analyzer) relativeDir(cwd string) string {
	rel := cwd
	if a.workspaceRoot != "" {
		if r, err := filepath.Rel(a.workspaceRoot, cwd); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return rootTag
	}
	return rel
}

func recordCwd(rec logfile.Record) string {
	if rec.Context == nil || rec.Context.Terminal == nil {
		return ""
	}
	return rec.Context.Terminal.Cwd
}

// elementTag is the last path segment of the execution directory, with the
// workspace root itself collapsing to the sentinel.
func (a *Analyzer) elementTag(cwd string) string {
	rel := ""
	if cwd != "" {
		rel = a.relativeDir(cwd)
	}
	if rel == "" || rel == rootTag {
		return rootTag
	}
	return path.Base(rel)
}

func hasLongSequence(sequences []Sequence) bool {
	for _, seq := range sequences {
		if len(seq.Elements) >= 3 {
			return true
		}
	}
	return false
}

func hasRepeatedCommand(sequences []Sequence) bool {
	for _, seq := range sequences {
		seen := make(map[string]bool, len(seq.Elements))
		for _, el := range seq.Elements {
			if seen[el.Command] {
				return true
			}
			seen[el.Command] = true
		}
	}
	return false
}
