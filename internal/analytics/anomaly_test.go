package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bizpulse/bizpulse/internal/models"
)

// TestDetectAnomaliesSingleSevereDay: [10,10,10,10,2] averages 8.4 with
// a threshold of 4.2; only the 2-count day trips it, at ~23.8% of
// average, which is below the 25% severe cutoff.
func TestDetectAnomaliesSingleSevereDay(t *testing.T) {
	buckets := []models.Bucket{
		dailyBucket("2024-05-01", 10, 500, 4),
		dailyBucket("2024-05-02", 10, 480, 5),
		dailyBucket("2024-05-03", 10, 510, 4),
		dailyBucket("2024-05-04", 10, 495, 6),
		dailyBucket("2024-05-05", 2, 90, 2),
	}

	anomalies := DetectAnomalies(buckets)
	assert.Len(t, anomalies, 1)

	anomaly := anomalies[0]
	assert.Equal(t, day(t, "2024-05-05"), anomaly.Date)
	assert.Equal(t, 2, anomaly.TransactionCount)
	assert.InDelta(t, 90.0, anomaly.Amount, 0.001)
	assert.InDelta(t, 23.809, anomaly.PercentOfAverage, 0.01)
	assert.Equal(t, models.SeveritySevere, anomaly.Severity)
}

// TestDetectAnomaliesSeverityBoundary verifies the moderate band:
// above 25% of average but still under the half-of-average threshold.
func TestDetectAnomaliesSeverityBoundary(t *testing.T) {
	// Average 10, threshold 5: counts 4 (40%) and 2 (20%) are flagged.
	buckets := []models.Bucket{
		dailyBucket("2024-05-01", 16, 800, 4),
		dailyBucket("2024-05-02", 18, 900, 5),
		dailyBucket("2024-05-03", 4, 200, 2),
		dailyBucket("2024-05-04", 2, 100, 1),
	}

	anomalies := DetectAnomalies(buckets)
	assert.Len(t, anomalies, 2)

	// Worst day first.
	assert.Equal(t, day(t, "2024-05-04"), anomalies[0].Date)
	assert.Equal(t, models.SeveritySevere, anomalies[0].Severity)
	assert.Equal(t, day(t, "2024-05-03"), anomalies[1].Date)
	assert.Equal(t, models.SeverityModerate, anomalies[1].Severity)
}

// TestDetectAnomaliesSteadyTraffic verifies uniform days produce no
// anomalies: nothing falls below half of its own average.
func TestDetectAnomaliesSteadyTraffic(t *testing.T) {
	buckets := []models.Bucket{
		dailyBucket("2024-05-01", 7, 350, 3),
		dailyBucket("2024-05-02", 7, 350, 3),
		dailyBucket("2024-05-03", 7, 350, 3),
	}
	assert.Empty(t, DetectAnomalies(buckets))
}

// TestDetectAnomaliesZeroAverage verifies the flat-zero history keeps
// percentages defined via the divide-by-one fallback. A zero average
// also means a zero threshold, so nothing is flagged.
func TestDetectAnomaliesZeroAverage(t *testing.T) {
	buckets := []models.Bucket{
		dailyBucket("2024-05-01", 0, 0, 0),
		dailyBucket("2024-05-02", 0, 0, 0),
	}
	assert.Empty(t, DetectAnomalies(buckets))
}

// TestDetectAnomaliesEmptyInput verifies no buckets yields no findings.
func TestDetectAnomaliesEmptyInput(t *testing.T) {
	assert.Nil(t, DetectAnomalies(nil))
}
