package capture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize("cpu", nil)
	assert.Equal(t, "cpu", stats.Metric)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.P99)
}

func TestSummarizeUniform(t *testing.T) {
	values := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		values = append(values, float64(i))
	}

	stats := Summarize("cpu", values)
	assert.Equal(t, int64(100), stats.Count)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 100.0, stats.Max)
	assert.InDelta(t, 50.5, stats.Mean, 1e-9)
	assert.InDelta(t, 50.0, stats.P50, 0.1)
	assert.InDelta(t, 95.0, stats.P95, 0.1)
	assert.InDelta(t, 99.0, stats.P99, 0.1)
}

func TestSummarizeNegativeValues(t *testing.T) {
	stats := Summarize("temperature", []float64{-5, 0, 5})
	assert.Equal(t, -5.0, stats.Min)
	assert.Equal(t, 5.0, stats.Max)
	assert.InDelta(t, 0.0, stats.Mean, 1e-9)
	assert.InDelta(t, 0.0, stats.P50, 0.01)
	assert.Equal(t, 5.0, stats.P99)
}

func TestSummarizeConstant(t *testing.T) {
	stats := Summarize("cpu", []float64{7, 7, 7})
	assert.Equal(t, 7.0, stats.Min)
	assert.Equal(t, 7.0, stats.Max)
	assert.Equal(t, 7.0, stats.P50)
	assert.Equal(t, 7.0, stats.P99)
}

func TestSummarizeFractional(t *testing.T) {
	stats := Summarize("load", []float64{0.125, 0.25, 0.5})
	assert.InDelta(t, 0.25, stats.P50, 0.001)
	assert.LessOrEqual(t, stats.P99, stats.Max)
	assert.GreaterOrEqual(t, stats.P50, stats.Min)
}

func TestSummarizeWideRange(t *testing.T) {
	t.Run("byte counter range", func(t *testing.T) {
		stats := Summarize("disk_bytes", []float64{0, 1e16})
		assert.Equal(t, 0.0, stats.Min)
		assert.Equal(t, 1e16, stats.Max)
		assert.InDelta(t, 0.0, stats.P50, 1)
		assert.InEpsilon(t, 1e16, stats.P95, 0.01)
		assert.InEpsilon(t, 1e16, stats.P99, 0.01)
	})

	t.Run("many samples keep their order", func(t *testing.T) {
		values := make([]float64, 0, 100)
		for i := 1; i <= 100; i++ {
			values = append(values, float64(i)*1e15)
		}
		stats := Summarize("net_bytes", values)
		assert.InEpsilon(t, 50e15, stats.P50, 0.01)
		assert.InEpsilon(t, 95e15, stats.P95, 0.01)
		assert.LessOrEqual(t, stats.P99, stats.Max)
	})

	t.Run("range beyond float64", func(t *testing.T) {
		stats := Summarize("extreme", []float64{-math.MaxFloat64, 0, math.MaxFloat64})
		assert.Equal(t, 0.0, stats.P50)
		assert.Equal(t, math.MaxFloat64, stats.P95)
		assert.Equal(t, math.MaxFloat64, stats.P99)
	})
}
