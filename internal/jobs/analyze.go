package jobs

import (
	"context"
	"errors"
	"time"

	"chatpulse/internal/analytics"
	"chatpulse/internal/filter"
	"chatpulse/internal/logging"
	"chatpulse/internal/metrics"
	"chatpulse/internal/model"
	"chatpulse/internal/store"
)

// Analyze runs one aggregation pass over rows, recording metrics.
func Analyze(rows []model.Row, opts filter.Options) (*analytics.Report, error) {
	start := time.Now()
	metrics.AnalyzeRuns.Inc()
	rep, err := analytics.Run(rows, opts)
	switch {
	case errors.Is(err, filter.ErrNoData):
		metrics.AnalyzeEmpty.WithLabelValues("no_data").Inc()
		return nil, err
	case errors.Is(err, filter.ErrNoDataInRange):
		metrics.AnalyzeEmpty.WithLabelValues("no_data_in_range").Inc()
		return nil, err
	case err != nil:
		return nil, err
	}
	metrics.ObserveAnalyzeDuration(start)
	metrics.RecordsProcessed.Set(float64(rep.TotalMessages))
	logging.Info("analyze", map[string]any{
		"filter":  rep.Filter.Summary(),
		"authors": len(rep.AuthorOrder),
		"took_ms": time.Since(start).Milliseconds(),
	})
	return rep, nil
}

// AnalyzeStore loads every stored row and analyzes it.
func AnalyzeStore(ctx context.Context, db *store.DB, opts filter.Options) (*analytics.Report, error) {
	rows, err := db.LoadRows(ctx)
	if err != nil {
		return nil, err
	}
	return Analyze(rows, opts)
}

// RunRefreshLoop calls refresh immediately and then on every tick until ctx
// is cancelled. Failures are logged and the loop keeps going.
func RunRefreshLoop(ctx context.Context, interval time.Duration, refresh func(context.Context) error) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	if err := refresh(ctx); err != nil {
		logging.Error("refresh_error", map[string]any{"error": err.Error()})
	}
	for {
		select {
		case <-ctx.Done():
			logging.Info("refresh_loop_stop", nil)
			return ctx.Err()
		case <-t.C:
			if err := refresh(ctx); err != nil {
				logging.Error("refresh_error", map[string]any{"error": err.Error()})
			}
		}
	}
}
