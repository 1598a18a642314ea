package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StatusSyncer moves stored event statuses to match the clock.
type StatusSyncer interface {
	SyncAllStatuses(ctx context.Context, now time.Time) (int, error)
}

type StatusWorker struct {
	syncer   StatusSyncer
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewStatusWorker(syncer StatusSyncer, interval time.Duration, logger zerolog.Logger) *StatusWorker {
	return &StatusWorker{
		syncer:   syncer,
		interval: interval,
		logger:   logger.With().Str("component", "status_worker").Logger(),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop.
func (w *StatusWorker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.logger.Info().Dur("interval", w.interval).Msg("status worker started")

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.sweep(cctx)
		for {
			select {
			case <-cctx.Done():
				w.logger.Info().Msg("status worker stopped")
				return
			case <-ticker.C:
				w.sweep(cctx)
			}
		}
	}()
}

func (w *StatusWorker) sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	changed, err := w.syncer.SyncAllStatuses(ctx, w.now())
	if err != nil {
		w.logger.Error().Err(err).Msg("status sweep failed")
		return
	}
	if changed > 0 {
		w.logger.Info().Int("changed", changed).Msg("event statuses synced")
	}
}

func (w *StatusWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
