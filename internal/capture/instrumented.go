package capture

import (
	"context"
	"time"

	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/metrics"
)

// Instrumented decorates a capture service with per-operation call counts,
// error counts and latencies.
type Instrumented struct {
	next     livemetrics.Capture
	recorder metrics.Recorder
}

var _ livemetrics.Capture = (*Instrumented)(nil)

// Instrument wraps next so every call is reported to recorder.
func Instrument(next livemetrics.Capture, recorder metrics.Recorder) *Instrumented {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Instrumented{next: next, recorder: recorder}
}

func (i *Instrumented) observe(operation string, start time.Time, err error) {
	code := ""
	if err != nil {
		code = string(errors.GetCode(err))
	}
	i.recorder.RecordCaptureCall(operation, time.Since(start), code)
}

func (i *Instrumented) FetchMetricsAvailable(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := i.next.FetchMetricsAvailable(ctx)
	i.observe(OpFetchMetricsAvailable, start, err)
	return names, err
}

func (i *Instrumented) CollectLiveMetric(
	ctx context.Context, metric string, start, end time.Time, interval livemetrics.Interval,
) (livemetrics.Series, error) {
	began := time.Now()
	series, err := i.next.CollectLiveMetric(ctx, metric, start, end, interval)
	i.observe(OpCollectLiveMetric, began, err)
	return series, err
}

func (i *Instrumented) CollectStatsMetric(
	ctx context.Context, metric string, start, end time.Time,
) (*livemetrics.Stats, error) {
	began := time.Now()
	stats, err := i.next.CollectStatsMetric(ctx, metric, start, end)
	i.observe(OpCollectStatsMetric, began, err)
	return stats, err
}

func (i *Instrumented) FirstAndLastCapture(ctx context.Context, metric string) (int64, int64, error) {
	start := time.Now()
	first, last, err := i.next.FirstAndLastCapture(ctx, metric)
	i.observe(OpFirstAndLastCapture, start, err)
	return first, last, err
}
