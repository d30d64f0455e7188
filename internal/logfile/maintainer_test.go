package logfile_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mpratt/devtrail/internal/logfile"
	"github.com/stretchr/testify/require"
)

func TestMaintainerRotatesOnStartAndTick(t *testing.T) {
	store := logfile.NewStore(filepath.Join(t.TempDir(), "activity.log"))
	fillStore(t, store, 12)

	rotator := logfile.NewRotator(store, testPolicy(), nil, nil)
	maintainer := logfile.NewMaintainer(rotator, time.Hour, nil)

	tick := make(chan time.Time)
	maintainer.Tick = tick

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		maintainer.Run(ctx)
		close(done)
	}()

	// Startup rotation trims the oversized log.
	require.Eventually(t, func() bool {
		lines, err := store.ReadLines()
		return err == nil && len(lines) == 5
	}, time.Second, 10*time.Millisecond)

	// Refill past the caps and drive a tick.
	fillStore(t, store, 12)
	tick <- time.Now()

	require.Eventually(t, func() bool {
		lines, err := store.ReadLines()
		return err == nil && len(lines) == 5
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("maintainer did not stop on cancel")
	}
}
