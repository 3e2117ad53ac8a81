package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/models"
	"github.com/bizpulse/bizpulse/internal/rules"
)

// Report is the full derived analytics output for one filter
// selection. All fields are value objects owned by the report; none
// hold back-references to the source records.
type Report struct {
	ID          string              `json:"id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Filter      models.FilterConfig `json:"filter"`
	RecordCount int                 `json:"record_count"`

	DailyBuckets     []models.Bucket `json:"daily_buckets"`
	WeeklyBuckets    []models.Bucket `json:"weekly_buckets"`
	QuarterlyBuckets []models.Bucket `json:"quarterly_buckets"`

	Anomalies []models.Anomaly            `json:"anomalies"`
	Temporal  *models.TemporalPatterns    `json:"temporal,omitempty"`
	Quarterly *models.QuarterlyComparison `json:"quarterly,omitempty"`
	Rolling   *models.RollingComparison   `json:"rolling,omitempty"`
	Ranking   *models.RankingResult       `json:"ranking,omitempty"`

	Metrics         models.MetricsBundle `json:"metrics"`
	Insights        []models.Insight     `json:"insights"`
	Recommendations []string             `json:"recommendations"`
}

// EngineMetrics tracks engine usage.
type EngineMetrics struct {
	ReportsGenerated int64         `json:"reports_generated"`
	RecordsProcessed int64         `json:"records_processed"`
	LastRunTime      time.Time     `json:"last_run_time"`
	ProcessingTime   time.Duration `json:"processing_time"`
}

// Engine runs the full analytics pipeline: filter, bucket, detect,
// compare, rank, classify. Every computation is a pure function of
// (records, filter); the engine itself keeps no derived state between
// invocations, so concurrent Analyze calls are safe.
type Engine struct {
	classifier  *rules.InsightClassifier
	recommender *rules.Recommender
	logger      *zap.Logger
	tracer      trace.Tracer

	metrics EngineMetrics
	mutex   sync.Mutex
}

// NewEngine creates an analytics engine.
func NewEngine(classifier *rules.InsightClassifier, recommender *rules.Recommender, logger *zap.Logger) *Engine {
	return &Engine{
		classifier:  classifier,
		recommender: recommender,
		logger:      logger,
		tracer:      otel.Tracer("analytics-engine"),
	}
}

// Analyze computes the complete derived report for the given records
// and filter selection. Records are treated as immutable input; an
// empty record set yields a well-defined empty report with the default
// recommendation list.
func (e *Engine) Analyze(ctx context.Context, records []models.Transaction, cfg models.FilterConfig) *Report {
	_, span := e.tracer.Start(ctx, "analytics.Analyze",
		trace.WithAttributes(
			attribute.String("business", cfg.Business),
			attribute.String("location", cfg.Location),
			attribute.Int("record_count", len(records)),
		))
	defer span.End()

	startTime := time.Now()

	filtered := FilterTransactions(records, cfg)

	report := &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Filter:      cfg,
		RecordCount: len(filtered),
	}

	report.DailyBuckets = BucketByDay(filtered)
	report.WeeklyBuckets = BucketByWeek(filtered)
	report.QuarterlyBuckets = BucketByQuarter(filtered)

	report.Anomalies = DetectAnomalies(report.DailyBuckets)
	report.Temporal = AnalyzeTemporalPatterns(report.DailyBuckets, len(filtered))
	report.Quarterly = CompareQuarters(report.QuarterlyBuckets)
	report.Rolling = CompareRollingWindow(records, cfg)

	if cfg.Business != "" && cfg.Business != models.AllBusinesses {
		report.Ranking = RankBusiness(e.dateFiltered(records, cfg), cfg.Business, cfg.Groups)
	}

	report.Metrics = buildMetricsBundle(report.Rolling)
	if report.Rolling != nil {
		report.Insights = e.classifier.Classify(report.Metrics)
		report.Recommendations = e.recommender.Recommend(report.Metrics, report.Insights)
	} else {
		report.Insights = []models.Insight{}
		report.Recommendations = rules.DefaultRecommendations()
	}

	e.recordRun(len(filtered), time.Since(startTime))

	e.logger.Info("Analytics report generated",
		zap.String("report_id", report.ID),
		zap.String("business", cfg.Business),
		zap.Int("records", len(filtered)),
		zap.Int("anomalies", len(report.Anomalies)),
		zap.Int("insights", len(report.Insights)),
		zap.Duration("took", time.Since(startTime)))

	return report
}

// dateFiltered applies only the date-range part of the selection: the
// ranker compares across all businesses, so the business and location
// predicates must not narrow its input.
func (e *Engine) dateFiltered(records []models.Transaction, cfg models.FilterConfig) []models.Transaction {
	return FilterTransactions(records, models.FilterConfig{
		Business:  models.AllBusinesses,
		Location:  models.AllLocations,
		DateRange: cfg.DateRange,
	})
}

// buildMetricsBundle derives the classifier input from the rolling
// 90-day comparison. A nil comparison yields the zero bundle.
func buildMetricsBundle(rolling *models.RollingComparison) models.MetricsBundle {
	if rolling == nil {
		return models.MetricsBundle{}
	}

	bundle := models.MetricsBundle{
		UserGrowthPercent:    rolling.UserGrowth.GrowthPercent,
		RevenueGrowthPercent: rolling.RevenueGrowth.GrowthPercent,
	}

	currentTicket := windowAvgTicket(rolling.Current)
	previousTicket := windowAvgTicket(rolling.Previous)
	bundle.AvgTicketGrowthPercent = NewGrowthMetric(currentTicket, previousTicket).GrowthPercent

	if rolling.Current.UniqueUsers > 0 {
		bundle.AvgVisitsPerUser = float64(rolling.Current.TransactionCount) / float64(rolling.Current.UniqueUsers)
		bundle.RetentionRate = float64(rolling.Current.ReturningUsers) / float64(rolling.Current.UniqueUsers) * 100
	}

	return bundle
}

func windowAvgTicket(window models.RollingWindow) float64 {
	if window.TransactionCount == 0 {
		return 0
	}
	return window.TotalRevenue / float64(window.TransactionCount)
}

// GetMetrics returns a copy of the engine usage counters.
func (e *Engine) GetMetrics() EngineMetrics {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.metrics
}

func (e *Engine) recordRun(recordCount int, took time.Duration) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.metrics.ReportsGenerated++
	e.metrics.RecordsProcessed += int64(recordCount)
	e.metrics.LastRunTime = time.Now()
	e.metrics.ProcessingTime = took
}
