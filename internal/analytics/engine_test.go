package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/models"
	"github.com/bizpulse/bizpulse/internal/rules"
)

func newTestEngine() *Engine {
	return NewEngine(rules.NewInsightClassifier(zap.NewNop()), rules.NewRecommender(zap.NewNop()), zap.NewNop())
}

// TestEngineEmptyInput verifies the engine degrades cleanly on no data:
// empty buckets, no findings, and the default recommendations.
func TestEngineEmptyInput(t *testing.T) {
	engine := newTestEngine()

	report := engine.Analyze(context.Background(), nil, allFilter())
	require.NotNil(t, report)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 0, report.RecordCount)
	assert.Empty(t, report.DailyBuckets)
	assert.Empty(t, report.Anomalies)
	assert.Nil(t, report.Temporal)
	assert.Nil(t, report.Quarterly)
	assert.Nil(t, report.Rolling)
	assert.Nil(t, report.Ranking)
	assert.Empty(t, report.Insights)
	assert.Equal(t, rules.DefaultRecommendations(), report.Recommendations)
	assert.Equal(t, models.MetricsBundle{}, report.Metrics)
}

// TestEngineFullPipeline runs the pipeline end to end over a small
// dataset spanning two quarters and checks the derived sections hang
// together.
func TestEngineFullPipeline(t *testing.T) {
	engine := newTestEngine()

	records := []models.Transaction{
		tx(t, "2024-02-10", "CAFE AURORA", "Centro", "a@x.com", 100),
		tx(t, "2024-02-11", "CAFE AURORA", "Centro", "b@x.com", 90),
		tx(t, "2024-05-10", "CAFE AURORA", "Centro", "a@x.com", 120),
		tx(t, "2024-05-11", "CAFE AURORA", "Centro", "a@x.com", 60),
		tx(t, "2024-05-12", "CAFE AURORA", "Centro", "c@x.com", 80),
		tx(t, "2024-05-12", "BAR LUNA", "Centro", "d@x.com", 500),
	}

	report := engine.Analyze(context.Background(), records, models.FilterConfig{
		Business: "CAFE AURORA",
		Location: models.AllLocations,
	})
	require.NotNil(t, report)

	assert.Equal(t, 5, report.RecordCount)
	assert.Len(t, report.DailyBuckets, 5)
	assert.Len(t, report.QuarterlyBuckets, 2)

	require.NotNil(t, report.Quarterly)
	assert.Equal(t, "2024-Q2", report.Quarterly.Current.Quarter)

	require.NotNil(t, report.Temporal)
	assert.NotEmpty(t, report.Temporal.Gaps)

	// Rolling windows anchor at 2024-05-12; the February records land in
	// the previous window.
	require.NotNil(t, report.Rolling)
	assert.Equal(t, 3, report.Rolling.Current.TransactionCount)
	assert.Equal(t, 2, report.Rolling.Previous.TransactionCount)

	// The ranking compares against the unselected businesses too.
	require.NotNil(t, report.Ranking)
	assert.Equal(t, 2, report.Ranking.Revenue.TotalEntities)

	assert.NotEmpty(t, report.Insights)
	assert.NotEmpty(t, report.Recommendations)
}

// TestEngineSkipsRankingForAll verifies no ranking is computed when no
// single business is selected.
func TestEngineSkipsRankingForAll(t *testing.T) {
	engine := newTestEngine()

	records := []models.Transaction{
		tx(t, "2024-05-10", "CAFE AURORA", "Centro", "a@x.com", 100),
		tx(t, "2024-05-11", "BAR LUNA", "Centro", "b@x.com", 200),
	}

	report := engine.Analyze(context.Background(), records, allFilter())
	require.NotNil(t, report)
	assert.Nil(t, report.Ranking)
}

// TestEngineMetricsAccumulate verifies the usage counters advance per
// run.
func TestEngineMetricsAccumulate(t *testing.T) {
	engine := newTestEngine()

	records := []models.Transaction{
		tx(t, "2024-05-10", "CAFE AURORA", "Centro", "a@x.com", 100),
	}

	engine.Analyze(context.Background(), records, allFilter())
	engine.Analyze(context.Background(), records, allFilter())

	metrics := engine.GetMetrics()
	assert.Equal(t, int64(2), metrics.ReportsGenerated)
	assert.Equal(t, int64(2), metrics.RecordsProcessed)
	assert.False(t, metrics.LastRunTime.IsZero())
}

// TestBuildMetricsBundle verifies the classifier input derivation from
// a rolling comparison, including visits and retention.
func TestBuildMetricsBundle(t *testing.T) {
	rolling := &models.RollingComparison{
		Current: models.RollingWindow{
			TransactionCount: 10,
			TotalRevenue:     1200,
			UniqueUsers:      4,
			ReturningUsers:   2,
		},
		Previous: models.RollingWindow{
			TransactionCount: 8,
			TotalRevenue:     800,
			UniqueUsers:      4,
		},
		UserGrowth:    NewGrowthMetric(4, 4),
		RevenueGrowth: NewGrowthMetric(1200, 800),
	}

	bundle := buildMetricsBundle(rolling)
	assert.InDelta(t, 0.0, bundle.UserGrowthPercent, 0.001)
	assert.InDelta(t, 50.0, bundle.RevenueGrowthPercent, 0.001)
	// Avg ticket 100 -> 120.
	assert.InDelta(t, 20.0, bundle.AvgTicketGrowthPercent, 0.001)
	assert.InDelta(t, 2.5, bundle.AvgVisitsPerUser, 0.001)
	assert.InDelta(t, 50.0, bundle.RetentionRate, 0.001)
}
