package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
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
	"github.com/mpratt/devtrail/internal/mcp"
	"github.com/mpratt/devtrail/internal/sqlite"
	"github.com/mpratt/devtrail/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server        *httptest.Server
	DB            *sqlite.DB
	Store         *logfile.Store
	Rotator       *logfile.Rotator
	Token         string
	WorkspaceID   string
	WorkspacePath string
}

func New(t *testing.T, token, workspaceID string) *TestServer {
	t.Helper()

	root := t.TempDir()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	store := logfile.NewStore(filepath.Join(root, ".devtrail", "activity.log"))

	historyRepo := sqlite.NewHistoryRepository(db)
	historySvc := history.NewService(historyRepo, workspaceID, nil)

	rotator := logfile.NewRotator(store, logfile.DefaultRotationPolicy(), historySvc, nil)
	trackerSvc := tracker.NewService(tracker.NewMemoryStore(), root, nil)
	recorderSvc := activity.NewService(logfile.NewWriter(store), trackerSvc,
		activity.WorkspaceInfo{Path: root, Name: workspaceID}, nil)
	insightSvc := insight.NewService(store, logfile.DefaultRotationPolicy().MaxEntries, nil)
	analyzer := workflow.NewAnalyzer(root, workflow.DefaultPatternRules())

	handler := mcp.NewHandler(mcp.Services{
		Recorder: recorderSvc,
		Tracker:  trackerSvc,
		Insight:  insightSvc,
		Workflow: analyzer,
		History:  historySvc,
		Rotator:  rotator,
	})

	resolver := &workspaceKeyResolver{db: db}
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(resolver)))

	ts := &TestServer{
		Server:        server,
		DB:            db,
		Store:         store,
		Rotator:       rotator,
		Token:         token,
		WorkspaceID:   workspaceID,
		WorkspacePath: root,
	}

	require.NoError(t, ts.AddWorkspaceKey(token, workspaceID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddWorkspaceKey(token, workspaceID string) error {
	hash := hashToken(token)
	_, err := ts.DB.Exec(
		`INSERT INTO workspace_keys (key_hash, workspace, created_at) VALUES (?, ?, ?)`,
		hash, workspaceID, time.Now(),
	)
	return err
}

type workspaceKeyResolver struct {
	db *sqlite.DB
}

func (r *workspaceKeyResolver) ResolveWorkspace(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)
	var workspaceID string
	err := r.db.QueryRowContext(ctx, `SELECT workspace FROM workspace_keys WHERE key_hash = ?`, hash).Scan(&workspaceID)
	if err != nil || workspaceID == "" {
		return "", transport.ErrUnauthorized
	}
	return workspaceID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
