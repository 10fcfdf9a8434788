package capture

import (
	"math"
	"slices"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/janakawicks/manageiq/internal/livemetrics"
)

const (
	// valueScale keeps three decimal places when values are recorded as
	// integers in the histogram.
	valueScale    = 1000
	histogramSigs = 3

	// maxRecordable is the largest histogram value, kept within the range
	// where float64 still represents every integer.
	maxRecordable = 1 << 53
)

// Summarize computes count, extremes and mean exactly and percentiles from
// an HDR histogram. Values are shifted by the minimum so that negative
// samples can be recorded.
func Summarize(metric string, values []float64) *livemetrics.Stats {
	stats := &livemetrics.Stats{Metric: metric}
	if len(values) == 0 {
		return stats
	}

	minValue, maxValue, sum := values[0], values[0], 0.0
	for _, v := range values {
		minValue = math.Min(minValue, v)
		maxValue = math.Max(maxValue, v)
		sum += v
	}

	stats.Count = int64(len(values))
	stats.Min = minValue
	stats.Max = maxValue
	stats.Mean = sum / float64(len(values))

	rangeWidth := maxValue - minValue
	if math.IsInf(rangeWidth, 0) || math.IsNaN(rangeWidth) {
		exactPercentiles(stats, values)
		return stats
	}

	// Wide ranges such as byte counters trade decimals for range.
	scale := float64(valueScale)
	for rangeWidth*scale > maxRecordable {
		scale /= 10
	}

	span := scaled(maxValue, minValue, scale)
	hist := hdrhistogram.New(1, span+2, histogramSigs)
	for _, v := range values {
		// Cannot fail: every scaled value lies within [1, span+1].
		_ = hist.RecordValue(scaled(v, minValue, scale) + 1)
	}

	stats.P50 = unscaled(hist.ValueAtQuantile(50), minValue, maxValue, scale)
	stats.P95 = unscaled(hist.ValueAtQuantile(95), minValue, maxValue, scale)
	stats.P99 = unscaled(hist.ValueAtQuantile(99), minValue, maxValue, scale)
	return stats
}

func scaled(v, offset, scale float64) int64 {
	return int64(math.Round((v - offset) * scale))
}

// unscaled maps a histogram value back into sample units, clamped to the
// observed range since HDR reports the upper edge of its bucket.
func unscaled(recorded int64, offset, ceiling, scale float64) float64 {
	v := float64(recorded-1)/scale + offset
	return math.Min(v, ceiling)
}

// exactPercentiles fills the percentiles by nearest rank over the sorted
// values. It serves ranges the histogram cannot hold.
func exactPercentiles(stats *livemetrics.Stats, values []float64) {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := func(quantile float64) float64 {
		i := int(math.Ceil(quantile/100*float64(len(sorted)))) - 1
		return sorted[max(i, 0)]
	}
	stats.P50 = rank(50)
	stats.P95 = rank(95)
	stats.P99 = rank(99)
}
