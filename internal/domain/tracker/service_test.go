package tracker_test

import (
	"path/filepath"
	"testing"

	"github.com/mpratt/devtrail/internal/domain/tracker"
	"github.com/stretchr/testify/require"
)

func newTracker() *tracker.Service {
	return tracker.NewService(tracker.NewMemoryStore(), "/proc-fallback", nil)
}

func TestTrackerHintWins(t *testing.T) {
	svc := newTracker()

	cwd := svc.Resolve("term1", "/hint/dir", "cd /elsewhere", "/workspace")
	require.Equal(t, "/hint/dir", cwd)

	// The hint is remembered for hint-less executions that follow.
	cwd = svc.Resolve("term1", "", "ls", "/workspace")
	require.Equal(t, "/hint/dir", cwd)
}

func TestTrackerLeadingCdAbsolute(t *testing.T) {
	svc := newTracker()

	cwd := svc.Resolve("term1", "", "cd /opt/tools && make", "/workspace")
	require.Equal(t, "/opt/tools", cwd)
}

func TestTrackerLeadingCdRelative(t *testing.T) {
	svc := newTracker()

	// No stored state yet: relative cd resolves against the workspace root.
	cwd := svc.Resolve("term1", "", "cd src/api", "/workspace")
	require.Equal(t, filepath.Join("/workspace", "src/api"), cwd)

	// Stored state exists now: the next relative cd chains off it.
	cwd = svc.Resolve("term1", "", "cd handlers", "/workspace")
	require.Equal(t, filepath.Join("/workspace", "src/api", "handlers"), cwd)
}

func TestTrackerQuotedCdTargets(t *testing.T) {
	svc := newTracker()

	cwd := svc.Resolve("t", "", `cd "/path with spaces/dir"`, "/workspace")
	require.Equal(t, "/path with spaces/dir", cwd)

	cwd = svc.Resolve("t2", "", `cd '/other path/dir'; ls`, "/workspace")
	require.Equal(t, "/other path/dir", cwd)
}

func TestTrackerCdMustLead(t *testing.T) {
	svc := newTracker()

	// cd buried mid-command is not a directory change signal.
	cwd := svc.Resolve("term1", "", "echo done && cd /tmp", "/workspace")
	require.Equal(t, "/workspace", cwd)
}

func TestTrackerStoredStateBeatsWorkspaceRoot(t *testing.T) {
	svc := newTracker()

	svc.Resolve("term1", "/stored/dir", "", "/workspace")
	cwd := svc.Resolve("term1", "", "git status", "/workspace")
	require.Equal(t, "/stored/dir", cwd)
}

func TestTrackerFallbackChain(t *testing.T) {
	svc := newTracker()

	// No hint, no cd, no state: the workspace root answers.
	cwd := svc.Resolve("term1", "", "ls", "/workspace")
	require.Equal(t, "/workspace", cwd)

	// Without even a workspace root, the process fallback answers.
	cwd = svc.Resolve("term2", "", "ls", "")
	require.Equal(t, "/proc-fallback", cwd)
}

func TestTrackerForget(t *testing.T) {
	svc := newTracker()

	svc.Resolve("term1", "/somewhere/deep", "", "/workspace")
	svc.Forget("term1")

	cwd := svc.Resolve("term1", "", "ls", "/workspace")
	require.Equal(t, "/workspace", cwd)
}

func TestTrackerScenarioCloseAndReopen(t *testing.T) {
	svc := newTracker()

	svc.Resolve("termA", "", "cd /project/sub", "/project")
	require.Equal(t, "/project/sub", mustResolveStored(svc, "termA", "/project"))

	svc.Forget("termA")

	// A fresh terminal with the same identifier starts clean.
	cwd := svc.Resolve("termA", "", "pwd", "/project")
	require.Equal(t, "/project", cwd)
}

func mustResolveStored(svc *tracker.Service, terminalID, root string) string {
	return svc.Resolve(terminalID, "", "true", root)
}
