package analytics

import (
	"sort"
	"time"

	"github.com/bizpulse/bizpulse/internal/models"
)

// Detection threshold: a day is anomalous when its count falls below
// this fraction of the historical daily average.
const anomalyThresholdRatio = 0.5

// severeCutoffPercent splits flagged days into severe and moderate.
const severeCutoffPercent = 25.0

// DetectAnomalies flags daily buckets whose transaction count fell
// below half of the historical mean over the filtered window. The
// result is sorted ascending by percent-of-average (worst day first).
// An empty result is the common steady state, not an error.
func DetectAnomalies(dailyBuckets []models.Bucket) []models.Anomaly {
	if len(dailyBuckets) == 0 {
		return nil
	}

	total := 0
	for _, bucket := range dailyBuckets {
		total += bucket.TransactionCount
	}
	historicalAverage := float64(total) / float64(len(dailyBuckets))
	threshold := historicalAverage * anomalyThresholdRatio

	// Zero-average fallback: divide by 1 so a flat-zero history still
	// yields defined percentages.
	denominator := historicalAverage
	if denominator == 0 {
		denominator = 1
	}

	var anomalies []models.Anomaly
	for _, bucket := range dailyBuckets {
		if float64(bucket.TransactionCount) >= threshold {
			continue
		}

		percent := float64(bucket.TransactionCount) / denominator * 100
		severity := models.SeverityModerate
		if percent < severeCutoffPercent {
			severity = models.SeveritySevere
		}

		date, err := time.Parse("2006-01-02", bucket.Key)
		if err != nil {
			// Malformed bucket keys are skipped rather than reported.
			continue
		}

		anomalies = append(anomalies, models.Anomaly{
			Date:             date,
			TransactionCount: bucket.TransactionCount,
			Amount:           bucket.TotalAmount,
			PercentOfAverage: percent,
			Severity:         severity,
		})
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].PercentOfAverage < anomalies[j].PercentOfAverage
	})

	return anomalies
}
