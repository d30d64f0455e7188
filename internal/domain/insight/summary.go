package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mpratt/devtrail/internal/logfile"
)

// ActivityCount is one ranked activity.
type ActivityCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summarize counts records by activity identity and ranks them by count,
// descending. Ties keep encounter order. Identity is "Type: detail" plus,
// when present, the workspace name, terminal shell, and exit code, so that
// textually identical commands run in different environments stay distinct.
func Summarize(records []logfile.Record) []ActivityCount {
	counts := make(map[string]int, len(records))
	var order []string
	for _, rec := range records {
		key := identityKey(rec)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	ranked := make([]ActivityCount, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, ActivityCount{Key: key, Count: counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	return ranked
}

// Top returns the first n ranked activities.
func Top(ranked []ActivityCount, n int) []ActivityCount {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

func identityKey(rec logfile.Record) string {
	key := rec.Key()
	if rec.Context == nil {
		return key
	}

	var dims []string
	if rec.Context.Workspace.Name != "" {
		dims = append(dims, "workspace="+rec.Context.Workspace.Name)
	}
	if term := rec.Context.Terminal; term != nil && term.Shell != "" {
		dims = append(dims, "shell="+term.Shell)
	}
	if exec := rec.Context.Execution; exec != nil && exec.ExitCode != nil {
		dims = append(dims, fmt.Sprintf("exit=%d", *exec.ExitCode))
	}
	if len(dims) > 0 {
		key += " [" + strings.Join(dims, " ") + "]"
	}
	return key
}
