package integration_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mpratt/devtrail/internal/domain/activity"
	"github.com/mpratt/devtrail/internal/domain/history"
	"github.com/mpratt/devtrail/internal/domain/insight"
	"github.com/mpratt/devtrail/internal/domain/tracker"
	"github.com/mpratt/devtrail/internal/domain/workflow"
	"github.com/mpratt/devtrail/internal/logfile"
	"github.com/mpratt/devtrail/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	root string

	db          *sqlite.DB
	store       *logfile.Store
	rotator     *logfile.Rotator
	trackerSvc  *tracker.Service
	recorderSvc *activity.Service
	insightSvc  *insight.Service
	historySvc  *history.Service
	analyzer    *workflow.Analyzer
}

func newTestEnv(t *testing.T, policy logfile.RotationPolicy) *testEnv {
	t.Helper()

	root := t.TempDir()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	store := logfile.NewStore(filepath.Join(root, ".devtrail", "activity.log"))
	historySvc := history.NewService(sqlite.NewHistoryRepository(db), "workspace", nil)
	rotator := logfile.NewRotator(store, policy, historySvc, nil)
	trackerSvc := tracker.NewService(tracker.NewMemoryStore(), root, nil)
	recorderSvc := activity.NewService(logfile.NewWriter(store), trackerSvc,
		activity.WorkspaceInfo{Path: root, Name: "workspace"}, nil)
	insightSvc := insight.NewService(store, policy.MaxEntries, nil)
	analyzer := workflow.NewAnalyzer(root, nil)

	return &testEnv{
		root:        root,
		db:          db,
		store:       store,
		rotator:     rotator,
		trackerSvc:  trackerSvc,
		recorderSvc: recorderSvc,
		insightSvc:  insightSvc,
		historySvc:  historySvc,
		analyzer:    analyzer,
	}
}

func (env *testEnv) recordCommand(t *testing.T, terminalID, detail string) {
	t.Helper()
	ok := env.recorderSvc.Record(context.Background(), activity.RecordRequest{
		Type:     activity.TypeCommand,
		Detail:   detail,
		Terminal: &activity.TerminalRef{ID: terminalID, Shell: "zsh"},
	})
	require.True(t, ok)
}

func TestIntegration_RecordAndOptimize(t *testing.T) {
	env := newTestEnv(t, logfile.DefaultRotationPolicy())

	for i := 0; i < 10; i++ {
		env.recordCommand(t, "term1", "npm run build")
	}
	for i := 0; i < 7; i++ {
		env.recordCommand(t, "term1", "git status")
	}
	env.recordCommand(t, "term1", "ls")

	payload, err := env.insightSvc.Optimize(context.Background())
	require.NoError(t, err)
	require.Contains(t, payload.Summary, "Activity log: 18 entries")
	require.Contains(t, payload.Summary, "npm run build")
	require.Len(t, payload.RecentLines, 18)

	// The most frequent activity ranks first.
	top, err := env.insightSvc.TopActivities(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	require.Equal(t, 10, top[0].Count)
	require.Contains(t, top[0].Key, "npm run build")
}

func TestIntegration_RotationArchivesHistory(t *testing.T) {
	policy := logfile.RotationPolicy{MaxBytes: 2048, MaxEntries: 10, MaxBackups: 3}
	env := newTestEnv(t, policy)

	for i := 0; i < 30; i++ {
		env.recordCommand(t, "term1", fmt.Sprintf("echo step-%02d", i))
	}

	require.NoError(t, env.rotator.RotateIfNeeded(context.Background()))

	// The live log keeps the newest entries.
	lines, err := env.store.ReadLines()
	require.NoError(t, err)
	require.Len(t, lines, policy.MaxEntries)
	require.Contains(t, lines[len(lines)-1], "step-29")

	// A backup preserves the pre-trim content.
	backups, err := filepath.Glob(env.store.Path() + ".backup.*")
	require.NoError(t, err)
	require.Len(t, backups, 1)

	// Evicted entries are queryable from the archive.
	entries, err := env.historySvc.Query(context.Background(), history.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 20)
	require.Equal(t, "workspace", entries[0].Workspace)

	details := make(map[string]bool, len(entries))
	for _, entry := range entries {
		details[entry.Detail] = true
	}
	require.True(t, details["echo step-00"])
	require.True(t, details["echo step-19"])
	require.False(t, details["echo step-20"])

	filtered, err := env.historySvc.Query(context.Background(), history.QueryOptions{Type: "Command", Limit: 5})
	require.NoError(t, err)
	require.Len(t, filtered, 5)
}

func TestIntegration_CwdFollowsTerminal(t *testing.T) {
	env := newTestEnv(t, logfile.DefaultRotationPolicy())
	ctx := context.Background()

	// A cd moves the terminal; later commands inherit the new directory.
	env.recordCommand(t, "term1", "cd web")
	env.recordCommand(t, "term1", "npm install")

	lines, err := env.store.ReadLines()
	require.NoError(t, err)
	records := logfile.ParseLines(lines)
	require.Len(t, records, 2)

	last := records[1]
	require.NotNil(t, last.Context)
	require.NotNil(t, last.Context.Terminal)
	require.Equal(t, filepath.Join(env.root, "web"), last.Context.Terminal.Cwd)

	// Closing the terminal resets its state.
	env.trackerSvc.Forget("term1")
	ok := env.recorderSvc.Record(ctx, activity.RecordRequest{
		Type:     activity.TypeCommand,
		Detail:   "pwd",
		Terminal: &activity.TerminalRef{ID: "term1"},
	})
	require.True(t, ok)

	lines, err = env.store.ReadLines()
	require.NoError(t, err)
	records = logfile.ParseLines(lines)
	require.Equal(t, env.root, records[2].Context.Terminal.Cwd)
}

func TestIntegration_WorkflowAnalysis(t *testing.T) {
	env := newTestEnv(t, logfile.DefaultRotationPolicy())

	env.recordCommand(t, "term1", "cd web")
	env.recordCommand(t, "term1", "npm install")
	env.recordCommand(t, "term1", "npm run dev")

	records, err := env.insightSvc.RecentRecords(context.Background(), 250)
	require.NoError(t, err)

	analysis := env.analyzer.Analyze(records)
	require.NotEmpty(t, analysis.Sequences)
	require.Contains(t, analysis.Patterns, "scoped-package-setup")
	require.Contains(t, analysis.DirectoryUsage, "web")
}

func TestIntegration_SelfReferentialCommandsFiltered(t *testing.T) {
	env := newTestEnv(t, logfile.DefaultRotationPolicy())

	ok := env.recorderSvc.Record(context.Background(), activity.RecordRequest{
		Type:   activity.TypeCommand,
		Detail: "cat .devtrail/activity.log",
	})
	require.False(t, ok)

	lines, err := env.store.ReadLines()
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestIntegration_MaintainerLoop(t *testing.T) {
	policy := logfile.RotationPolicy{MaxBytes: 512, MaxEntries: 4, MaxBackups: 2}
	env := newTestEnv(t, policy)

	for i := 0; i < 20; i++ {
		env.recordCommand(t, "term1", fmt.Sprintf("echo tick-%02d", i))
	}

	maintainer := logfile.NewMaintainer(env.rotator, time.Hour, nil)
	tick := make(chan time.Time)
	maintainer.Tick = tick

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go maintainer.Run(ctx)

	require.Eventually(t, func() bool {
		lines, err := env.store.ReadLines()
		return err == nil && len(lines) == policy.MaxEntries
	}, time.Second, 10*time.Millisecond)
}
