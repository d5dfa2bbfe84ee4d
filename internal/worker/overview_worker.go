package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bunkmate/bunkmate-backend/internal/service"
)

// OverviewWorker keeps the redis overview cache warm so dashboard reads rarely
// hit PostgreSQL. Writes invalidate the cache immediately; this worker covers
// TTL expiry and redis restarts.
type OverviewWorker struct {
	overviewService *service.OverviewService
	interval        time.Duration
	log             zerolog.Logger
}

func NewOverviewWorker(overviewService *service.OverviewService, interval time.Duration, log zerolog.Logger) *OverviewWorker {
	return &OverviewWorker{
		overviewService: overviewService,
		interval:        interval,
		log:             log.With().Str("component", "overview_worker").Logger(),
	}
}

func (w *OverviewWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("OverviewWorker started")

	// Warm the cache once at startup before the first tick.
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("OverviewWorker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *OverviewWorker) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := w.overviewService.Refresh(refreshCtx); err != nil {
		w.log.Error().Err(err).Msg("overview refresh failed")
	}
}
