package livemetrics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/janakawicks/manageiq/internal/logging"
)

// Entity is a monitored object exposing live metrics. Its type name keys
// the Registry; its capture service supplies the samples.
type Entity struct {
	typeName    string
	id          uuid.UUID
	capture     Capture
	registry    *Registry
	logger      *logging.Logger
	now         func() time.Time
	concurrency int

	mu              sync.Mutex
	available       []string
	availableLoaded bool
}

// EntityOption configures an Entity.
type EntityOption func(*Entity)

// WithLogger sets the logger used for fail-soft diagnostics.
func WithLogger(logger *logging.Logger) EntityOption {
	return func(e *Entity) {
		e.logger = logger
	}
}

// WithClock overrides the clock used by the hourly capture window rule.
func WithClock(now func() time.Time) EntityOption {
	return func(e *Entity) {
		e.now = now
	}
}

// WithCollectConcurrency sets how many metrics CollectLiveMetrics fetches at once.
func WithCollectConcurrency(n int) EntityOption {
	return func(e *Entity) {
		e.concurrency = n
	}
}

// NewEntity creates an entity of the given canonical type name.
func NewEntity(typeName string, id uuid.UUID, capture Capture, registry *Registry, opts ...EntityOption) *Entity {
	e := &Entity{
		typeName: typeName,
		id:       id,
		capture:  capture,
		registry: registry,
		logger:   logging.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EntityFor creates an entity whose type name is derived from host's type.
func EntityFor(host any, id uuid.UUID, capture Capture, registry *Registry, opts ...EntityOption) *Entity {
	return NewEntity(TypeNameOf(host), id, capture, registry, opts...)
}

// ID returns the entity identity.
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// LiveMetricsName returns the type name used to find the declaration.
func (e *Entity) LiveMetricsName() string {
	return e.typeName
}

// ChartReportName returns the type name used for chart reports.
func (e *Entity) ChartReportName() string {
	return e.typeName
}

// FetchMetricsAvailable asks the capture service for the metrics it has,
// bypassing the instance cache.
func (e *Entity) FetchMetricsAvailable(ctx context.Context) ([]string, error) {
	return e.capture.FetchMetricsAvailable(ctx)
}

// MetricsAvailable returns the metrics the capture service has for this
// entity. A successful answer is kept for the life of the entity.
func (e *Entity) MetricsAvailable(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.availableLoaded {
		return e.available, nil
	}
	available, err := e.capture.FetchMetricsAvailable(ctx)
	if err != nil {
		return nil, err
	}
	e.available = available
	e.availableLoaded = true
	return available, nil
}

// CollectLiveMetric delegates a single-metric collection to the capture service.
func (e *Entity) CollectLiveMetric(
	ctx context.Context, metric string, start, end time.Time, interval Interval,
) (Series, error) {
	return e.capture.CollectLiveMetric(ctx, metric, start, end, interval)
}

// CollectStatsMetric delegates a stats summary to the capture service.
func (e *Entity) CollectStatsMetric(ctx context.Context, metric string, start, end time.Time) (*Stats, error) {
	return e.capture.CollectStatsMetric(ctx, metric, start, end)
}

// CollectLiveMetrics collects and merges several metrics.
func (e *Entity) CollectLiveMetrics(
	ctx context.Context, metrics []string, start, end time.Time, interval Interval,
) (Series, error) {
	return CollectLiveMetrics(ctx, e.capture, metrics, start, end, interval, WithConcurrency(e.concurrency))
}

// FirstAndLastCapture returns the capture window across all available
// metrics. It never fails: any error is logged and both bounds are absent.
// An empty interval name means realtime.
func (e *Entity) FirstAndLastCapture(ctx context.Context, intervalName string) CaptureWindow {
	if intervalName == "" {
		intervalName = string(IntervalRealtime)
	}

	window, err := e.captureWindow(ctx, intervalName)
	if err != nil {
		e.logger.ErrorEntity("LiveMetrics unavailable", e.typeName, e.id.String(), err,
			"interval", intervalName)
		return CaptureWindow{}
	}
	return window
}

func (e *Entity) captureWindow(ctx context.Context, intervalName string) (CaptureWindow, error) {
	metrics, err := e.MetricsAvailable(ctx)
	if err != nil {
		return CaptureWindow{}, err
	}

	firsts := make([]int64, 0, len(metrics))
	lasts := make([]int64, 0, len(metrics))
	for _, metric := range metrics {
		first, last, err := e.capture.FirstAndLastCapture(ctx, metric)
		if err != nil {
			return CaptureWindow{}, err
		}
		firsts = append(firsts, first)
		lasts = append(lasts, last)
	}

	return AdjustTimestamps(firsts, lasts, intervalName, e.now())
}

// IncludedChildren returns the child entity types declared for this type.
func (e *Entity) IncludedChildren() ([]string, error) {
	return e.registry.IncludedChildren(e.typeName)
}

// SupportedMetrics returns the declared human key to metric identifier table.
func (e *Entity) SupportedMetrics() (map[string]string, error) {
	return e.registry.SupportedMetrics(e.typeName)
}

// SupportedMetricsByColumn returns the metric identifier to human key table.
func (e *Entity) SupportedMetricsByColumn() (map[string]string, error) {
	return e.registry.SupportedMetricsByColumn(e.typeName)
}

// ResolveMetrics maps configured keys onto metric identifiers. Names that
// are not configured keys pass through unchanged.
func (e *Entity) ResolveMetrics(names []string) ([]string, error) {
	supported, err := e.SupportedMetrics()
	if err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(names))
	for _, name := range names {
		if identifier, ok := supported[name]; ok {
			name = identifier
		}
		resolved = append(resolved, name)
	}
	return resolved, nil
}
