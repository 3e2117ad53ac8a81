package analytics

import "github.com/bizpulse/bizpulse/internal/models"

// NewGrowthMetric builds a GrowthMetric using the zero-baseline
// convention: a zero previous value reports +100% when the current
// value is positive and 0% otherwise. Callers rely on this never
// producing NaN or an infinite percentage.
func NewGrowthMetric(current, previous float64) models.GrowthMetric {
	metric := models.GrowthMetric{
		Current:  current,
		Previous: previous,
	}

	if previous == 0 {
		if current > 0 {
			metric.GrowthPercent = 100
		}
		return metric
	}

	metric.GrowthPercent = (current - previous) / previous * 100
	return metric
}
