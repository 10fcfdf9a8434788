package livemetrics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/livemetrics/mocks"
)

var (
	rangeStart = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC)
)

func TestCollectLiveMetricsMerges(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCapture(ctrl)

	gomock.InOrder(
		capture.EXPECT().
			CollectLiveMetric(gomock.Any(), "cpu", rangeStart, rangeEnd, livemetrics.IntervalRealtime).
			Return(livemetrics.Series{1000: {"cpu": 10}, 2000: {"cpu": 20}}, nil),
		capture.EXPECT().
			CollectLiveMetric(gomock.Any(), "memory", rangeStart, rangeEnd, livemetrics.IntervalRealtime).
			Return(livemetrics.Series{2000: {"memory": 512}, 3000: {"memory": 640}}, nil),
	)

	series, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
		[]string{"cpu", "memory"}, rangeStart, rangeEnd, livemetrics.IntervalRealtime)
	require.NoError(t, err)

	assert.Equal(t, livemetrics.Series{
		1000: {"cpu": 10},
		2000: {"cpu": 20, "memory": 512},
		3000: {"memory": 640},
	}, series)
}

func TestCollectLiveMetricsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCapture(ctrl)

	series, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
		nil, rangeStart, rangeEnd, livemetrics.IntervalHourly)
	require.NoError(t, err)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestCollectLiveMetricsPropagatesFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCapture(ctrl)
	failure := errors.NewCaptureError(errors.CodeServiceUnavailable, "capture offline", "memory")

	gomock.InOrder(
		capture.EXPECT().
			CollectLiveMetric(gomock.Any(), "cpu", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(livemetrics.Series{1000: {"cpu": 1}}, nil),
		capture.EXPECT().
			CollectLiveMetric(gomock.Any(), "memory", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, failure),
	)

	series, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
		[]string{"cpu", "memory", "disk"}, rangeStart, rangeEnd, livemetrics.IntervalRealtime)
	assert.Nil(t, series)
	assert.Same(t, failure, err)
}

func TestCollectLiveMetricsRejectsInvertedRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCapture(ctrl)

	_, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
		[]string{"cpu"}, rangeEnd, rangeStart, livemetrics.IntervalRealtime)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestCollectLiveMetricsParallelMatchesSequential(t *testing.T) {
	metrics := make([]string, 12)
	for i := range metrics {
		metrics[i] = fmt.Sprintf("metric_%02d", i)
	}

	collect := func(opts ...livemetrics.CollectOption) livemetrics.Series {
		ctrl := gomock.NewController(t)
		capture := mocks.NewMockCapture(ctrl)
		capture.EXPECT().
			CollectLiveMetric(gomock.Any(), gomock.Any(), rangeStart, rangeEnd, livemetrics.IntervalRealtime).
			DoAndReturn(func(_ context.Context, metric string, _, _ time.Time, _ livemetrics.Interval) (livemetrics.Series, error) {
				return livemetrics.Series{
					1000: {metric: 1},
					2000: {metric: 2},
				}, nil
			}).
			Times(len(metrics))

		series, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
			metrics, rangeStart, rangeEnd, livemetrics.IntervalRealtime, opts...)
		require.NoError(t, err)
		return series
	}

	sequential := collect()
	parallel := collect(livemetrics.WithConcurrency(4))

	assert.Equal(t, sequential, parallel)
	assert.Len(t, parallel[1000], len(metrics))
}

func TestCollectLiveMetricsParallelError(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCapture(ctrl)
	failure := fmt.Errorf("capture offline")

	capture.EXPECT().
		CollectLiveMetric(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, failure).
		MinTimes(1).
		MaxTimes(3)

	_, err := livemetrics.CollectLiveMetrics(context.Background(), capture,
		[]string{"a", "b", "c"}, rangeStart, rangeEnd, livemetrics.IntervalRealtime,
		livemetrics.WithConcurrency(3))
	assert.ErrorIs(t, err, failure)
}
