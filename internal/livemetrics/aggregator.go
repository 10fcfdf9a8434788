package livemetrics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/janakawicks/manageiq/internal/errors"
)

type collectOptions struct {
	concurrency int
}

// CollectOption configures CollectLiveMetrics.
type CollectOption func(*collectOptions)

// WithConcurrency lets up to n metrics be collected at once. Values below
// two collect sequentially.
func WithConcurrency(n int) CollectOption {
	return func(o *collectOptions) {
		o.concurrency = n
	}
}

// CollectLiveMetrics collects every metric over [start, end] and merges the
// per-metric series into one, keyed by bucket timestamp. The first capture
// error is returned as-is and no partial result is produced.
func CollectLiveMetrics(
	ctx context.Context,
	capture Capture,
	metrics []string,
	start, end time.Time,
	interval Interval,
	opts ...CollectOption,
) (Series, error) {
	if end.Before(start) {
		return nil, errors.NewValidationError("end", "end time precedes start time")
	}

	o := collectOptions{concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}

	result := make(Series)
	if len(metrics) == 0 {
		return result, nil
	}

	partials, err := collectPartials(ctx, capture, metrics, start, end, interval, o.concurrency)
	if err != nil {
		return nil, err
	}

	// Merge in request order so the outcome does not depend on scheduling.
	for _, partial := range partials {
		result.Merge(partial)
	}
	return result, nil
}

func collectPartials(
	ctx context.Context,
	capture Capture,
	metrics []string,
	start, end time.Time,
	interval Interval,
	concurrency int,
) ([]Series, error) {
	partials := make([]Series, len(metrics))

	if concurrency < 2 {
		for i, metric := range metrics {
			partial, err := capture.CollectLiveMetric(ctx, metric, start, end, interval)
			if err != nil {
				return nil, err
			}
			partials[i] = partial
		}
		return partials, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, metric := range metrics {
		i, metric := i, metric
		g.Go(func() error {
			partial, err := capture.CollectLiveMetric(gctx, metric, start, end, interval)
			if err != nil {
				return err
			}
			partials[i] = partial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}
