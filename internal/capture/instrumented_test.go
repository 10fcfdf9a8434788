package capture_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/janakawicks/manageiq/internal/capture"
	"github.com/janakawicks/manageiq/internal/errors"
	"github.com/janakawicks/manageiq/internal/livemetrics"
	"github.com/janakawicks/manageiq/internal/livemetrics/mocks"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordConfigLoad(entityType, outcome string) {
	m.Called(entityType, outcome)
}

func (m *mockRecorder) RecordCaptureCall(operation string, duration time.Duration, code string) {
	m.Called(operation, duration, code)
}

func (m *mockRecorder) AddSamplesRecorded(count int) {
	m.Called(count)
}

func (m *mockRecorder) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.Called(method, route, status, duration)
}

func TestInstrumentedRecordsEveryOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockCapture(ctrl)
	recorder := &mockRecorder{}
	wrapped := capture.Instrument(next, recorder)

	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0).UTC()
	end := start.Add(time.Hour)
	anyDuration := mock.AnythingOfType("time.Duration")

	next.EXPECT().FetchMetricsAvailable(ctx).Return([]string{"cpu"}, nil)
	next.EXPECT().CollectLiveMetric(ctx, "cpu", start, end, livemetrics.IntervalHourly).
		Return(livemetrics.Series{1: {"cpu": 1}}, nil)
	next.EXPECT().CollectStatsMetric(ctx, "cpu", start, end).Return(&livemetrics.Stats{Metric: "cpu"}, nil)
	next.EXPECT().FirstAndLastCapture(ctx, "cpu").Return(int64(0), int64(0), errors.ErrNoCaptures("cpu"))

	recorder.On("RecordCaptureCall", capture.OpFetchMetricsAvailable, anyDuration, "").Once()
	recorder.On("RecordCaptureCall", capture.OpCollectLiveMetric, anyDuration, "").Once()
	recorder.On("RecordCaptureCall", capture.OpCollectStatsMetric, anyDuration, "").Once()
	recorder.On("RecordCaptureCall", capture.OpFirstAndLastCapture, anyDuration, "CAPTURE_NO_DATA").Once()

	names, err := wrapped.FetchMetricsAvailable(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu"}, names)

	series, err := wrapped.CollectLiveMetric(ctx, "cpu", start, end, livemetrics.IntervalHourly)
	require.NoError(t, err)
	assert.Len(t, series, 1)

	stats, err := wrapped.CollectStatsMetric(ctx, "cpu", start, end)
	require.NoError(t, err)
	assert.Equal(t, "cpu", stats.Metric)

	_, _, err = wrapped.FirstAndLastCapture(ctx, "cpu")
	assert.True(t, errors.IsCode(err, errors.CodeCaptureNoData))

	recorder.AssertExpectations(t)
}

func TestInstrumentNilRecorder(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockCapture(ctrl)
	next.EXPECT().FetchMetricsAvailable(gomock.Any()).Return([]string{}, nil)

	wrapped := capture.Instrument(next, nil)
	_, err := wrapped.FetchMetricsAvailable(context.Background())
	assert.NoError(t, err)
}
