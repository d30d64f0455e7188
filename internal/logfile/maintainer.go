package logfile

import (
	"context"
	"log/slog"
	"time"
)

// Maintainer runs rotation once at startup and then on every tick. Rotation
// failures are diagnosed and never stop the loop.
type Maintainer struct {
	rotator  *Rotator
	interval time.Duration
	logger   *slog.Logger

	// Tick overrides the internal ticker, letting tests drive virtual time.
	Tick <-chan time.Time
}

// NewMaintainer creates a maintainer rotating every interval.
func NewMaintainer(rotator *Rotator, interval time.Duration, logger *slog.Logger) *Maintainer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Maintainer{rotator: rotator, interval: interval, logger: logger}
}

// Run blocks until ctx is canceled.
func (m *Maintainer) Run(ctx context.Context) {
	m.rotate(ctx)

	tick := m.Tick
	if tick == nil {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			m.rotate(ctx)
		}
	}
}

func (m *Maintainer) rotate(ctx context.Context) {
	if err := m.rotator.RotateIfNeeded(ctx); err != nil {
		m.logger.Warn("log rotation failed", "error", err)
	}
}
