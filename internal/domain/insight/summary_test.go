package insight_test

import (
	"testing"

	"github.com/mpratt/devtrail/internal/domain/activity"
	"github.com/mpratt/devtrail/internal/domain/insight"
	"github.com/mpratt/devtrail/internal/logfile"
	"github.com/stretchr/testify/require"
)

func record(eventType, detail string) logfile.Record {
	return logfile.Record{Type: eventType, Detail: detail}
}

func TestSummarizeRanksByCount(t *testing.T) {
	var records []logfile.Record
	for i := 0; i < 3; i++ {
		records = append(records, record("Command", "go test ./..."))
	}
	records = append(records, record("Create", "main.go"))
	for i := 0; i < 5; i++ {
		records = append(records, record("Command", "git status"))
	}

	ranked := insight.Summarize(records)
	require.Len(t, ranked, 3)
	require.Equal(t, insight.ActivityCount{Key: "Command: git status", Count: 5}, ranked[0])
	require.Equal(t, insight.ActivityCount{Key: "Command: go test ./...", Count: 3}, ranked[1])
	require.Equal(t, insight.ActivityCount{Key: "Create: main.go", Count: 1}, ranked[2])
}

func TestSummarizeTiesKeepEncounterOrder(t *testing.T) {
	records := []logfile.Record{
		record("Command", "make lint"),
		record("Command", "make vet"),
		record("Command", "make lint"),
		record("Command", "make vet"),
	}

	ranked := insight.Summarize(records)
	require.Equal(t, "Command: make lint", ranked[0].Key)
	require.Equal(t, "Command: make vet", ranked[1].Key)
}

func TestSummarizeContextDimensionsSplitIdentity(t *testing.T) {
	exit0, exit1 := 0, 1
	withContext := func(shell string, exit *int) logfile.Record {
		return logfile.Record{
			Type:   "Command",
			Detail: "npm test",
			Context: &activity.Context{
				Workspace: activity.WorkspaceInfo{Name: "api"},
				Terminal:  &activity.TerminalInfo{ID: "t", Shell: shell},
				Execution: &activity.ExecutionInfo{ExitCode: exit},
			},
		}
	}

	ranked := insight.Summarize([]logfile.Record{
		withContext("zsh", &exit0),
		withContext("zsh", &exit0),
		withContext("bash", &exit0),
		withContext("zsh", &exit1),
	})

	require.Len(t, ranked, 3)
	require.Equal(t, "Command: npm test [workspace=api shell=zsh exit=0]", ranked[0].Key)
	require.Equal(t, 2, ranked[0].Count)
}

func TestTopBounds(t *testing.T) {
	ranked := []insight.ActivityCount{{Key: "a", Count: 2}, {Key: "b", Count: 1}}
	require.Len(t, insight.Top(ranked, 10), 2)
	require.Len(t, insight.Top(ranked, 1), 1)
	require.Empty(t, insight.Top(ranked, 0))
	require.Empty(t, insight.Top(ranked, -1))
}
