package analytics

import (
	"github.com/bizpulse/bizpulse/internal/models"
)

// Headline comparisons look at the most recent quarters only.
const maxComparedQuarters = 4

// CompareQuarters computes quarter-over-quarter growth across the most
// recent quarters (up to 4) present after filtering. Requires at least
// 2 quarters; returns nil ("not applicable") otherwise.
//
// Quarterly buckets must be sorted ascending by key, which is how the
// bucketer emits them.
func CompareQuarters(quarterlyBuckets []models.Bucket) *models.QuarterlyComparison {
	if len(quarterlyBuckets) < 2 {
		return nil
	}

	window := quarterlyBuckets
	if len(window) > maxComparedQuarters {
		window = window[len(window)-maxComparedQuarters:]
	}

	growth := make([]models.QuarterGrowth, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		growth = append(growth, quarterGrowth(window[i], window[i-1]))
	}

	comparison := &models.QuarterlyComparison{
		Quarters: window,
		Growth:   growth,
		Previous: window[len(window)-2],
	}
	comparison.Current = &growth[len(growth)-1]

	return comparison
}

// quarterGrowth compares one quarter against the quarter immediately
// before it in the window.
func quarterGrowth(current, previous models.Bucket) models.QuarterGrowth {
	return models.QuarterGrowth{
		Quarter:          current.Key,
		Label:            current.Label,
		Users:            NewGrowthMetric(float64(current.UniqueUsers), float64(previous.UniqueUsers)),
		Revenue:          NewGrowthMetric(current.TotalAmount, previous.TotalAmount),
		AvgTicket:        NewGrowthMetric(avgTicket(current), avgTicket(previous)),
		TransactionCount: NewGrowthMetric(float64(current.TransactionCount), float64(previous.TransactionCount)),
	}
}

// avgTicket is revenue per transaction, 0 when the period had none.
func avgTicket(bucket models.Bucket) float64 {
	if bucket.TransactionCount == 0 {
		return 0
	}
	return bucket.TotalAmount / float64(bucket.TransactionCount)
}
