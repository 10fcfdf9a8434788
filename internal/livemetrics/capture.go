package livemetrics

//go:generate mockgen -source=capture.go -destination=mocks/mock_capture.go -package=mocks

import (
	"context"
	"time"
)

// Interval names a bucketing granularity understood by a capture service.
type Interval string

const (
	IntervalRealtime Interval = "realtime"
	IntervalHourly   Interval = "hourly"
	IntervalDaily    Interval = "daily"
)

// String returns the interval name.
func (i Interval) String() string {
	return string(i)
}

// Valid reports whether the interval is one of the known names.
func (i Interval) Valid() bool {
	switch i {
	case IntervalRealtime, IntervalHourly, IntervalDaily:
		return true
	}
	return false
}

// Bucket maps metric name to its value for one timestamp.
type Bucket map[string]float64

// Series maps a bucket timestamp, in epoch milliseconds, to the values
// captured for that bucket.
type Series map[int64]Bucket

// Merge folds other into s. Buckets that share a timestamp are unioned;
// when both carry the same metric the value from other wins.
func (s Series) Merge(other Series) {
	for ts, bucket := range other {
		existing := s[ts]
		if existing == nil {
			existing = make(Bucket, len(bucket))
			s[ts] = existing
		}
		for metric, value := range bucket {
			existing[metric] = value
		}
	}
}

// Stats summarizes the raw samples of one metric over a time range.
type Stats struct {
	Metric string  `json:"metric"`
	Count  int64   `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Capture is the capture service an entity delegates sample collection to.
// Implementations are scoped to a single entity.
type Capture interface {
	// FetchMetricsAvailable returns the metric identifiers that have captures.
	FetchMetricsAvailable(ctx context.Context) ([]string, error)

	// CollectLiveMetric returns the bucketed values of one metric. Every
	// bucket in the result carries only the requested metric.
	CollectLiveMetric(ctx context.Context, metric string, start, end time.Time, interval Interval) (Series, error)

	// CollectStatsMetric summarizes the raw samples of one metric.
	CollectStatsMetric(ctx context.Context, metric string, start, end time.Time) (*Stats, error)

	// FirstAndLastCapture returns the oldest and newest capture of a metric
	// in epoch milliseconds.
	FirstAndLastCapture(ctx context.Context, metric string) (first, last int64, err error)
}
