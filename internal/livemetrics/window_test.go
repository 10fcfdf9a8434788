package livemetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustTimestamps(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	t.Run("min first and max last", func(t *testing.T) {
		window, err := AdjustTimestamps([]int64{1000, 5000}, []int64{9000, 20000}, "realtime", now)
		require.NoError(t, err)
		require.NotNil(t, window.First)
		require.NotNil(t, window.Last)
		assert.Equal(t, time.Unix(1, 0).UTC(), *window.First)
		assert.Equal(t, time.Unix(20, 0).UTC(), *window.Last)
		assert.Equal(t, time.UTC, window.First.Location())
	})

	t.Run("milliseconds truncate to seconds", func(t *testing.T) {
		window, err := AdjustTimestamps([]int64{1999}, []int64{2999}, "realtime", now)
		require.NoError(t, err)
		assert.Equal(t, time.Unix(1, 0).UTC(), *window.First)
		assert.Equal(t, time.Unix(2, 0).UTC(), *window.Last)
	})

	t.Run("hourly suppresses a young first bound", func(t *testing.T) {
		recent := now.Add(-30 * time.Minute).UnixMilli()
		window, err := AdjustTimestamps([]int64{recent}, []int64{now.UnixMilli()}, "hourly", now)
		require.NoError(t, err)
		assert.Nil(t, window.First)
		require.NotNil(t, window.Last)
		assert.Equal(t, now, *window.Last)
	})

	t.Run("hourly at exactly one hour is still suppressed", func(t *testing.T) {
		edge := now.Add(-time.Hour).UnixMilli()
		window, err := AdjustTimestamps([]int64{edge}, []int64{now.UnixMilli()}, "hourly", now)
		require.NoError(t, err)
		assert.Nil(t, window.First)
	})

	t.Run("hourly keeps an old first bound", func(t *testing.T) {
		old := now.Add(-2 * time.Hour)
		window, err := AdjustTimestamps([]int64{old.UnixMilli()}, []int64{now.UnixMilli()}, "hourly", now)
		require.NoError(t, err)
		require.NotNil(t, window.First)
		assert.Equal(t, old, *window.First)
	})

	t.Run("realtime keeps a young first bound", func(t *testing.T) {
		recent := now.Add(-30 * time.Minute)
		window, err := AdjustTimestamps([]int64{recent.UnixMilli()}, []int64{now.UnixMilli()}, "realtime", now)
		require.NoError(t, err)
		require.NotNil(t, window.First)
		assert.Equal(t, recent, *window.First)
	})

	t.Run("empty bounds", func(t *testing.T) {
		window, err := AdjustTimestamps(nil, nil, "realtime", now)
		assert.Error(t, err)
		assert.True(t, window.IsZero())
	})
}
