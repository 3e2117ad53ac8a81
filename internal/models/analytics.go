package models

import "time"

// Bucket is an aggregate over one time period (day, week or quarter).
// Derived value object: recomputed on every filter change, never stored.
type Bucket struct {
	Key              string  `json:"key"`   // sortable period key: YYYY-MM-DD, week-start date, or YYYY-Qn
	Label            string  `json:"label"` // human period name
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	UniqueUsers      int     `json:"unique_users"`
}

// AnomalySeverity classifies how far below average a flagged day fell.
type AnomalySeverity string

const (
	SeveritySevere   AnomalySeverity = "severe"
	SeverityModerate AnomalySeverity = "moderate"
)

// Anomaly flags a day whose transaction volume fell below half of the
// historical daily average.
type Anomaly struct {
	Date             time.Time       `json:"date"`
	TransactionCount int             `json:"transaction_count"`
	Amount           float64         `json:"amount"`
	PercentOfAverage float64         `json:"percent_of_average"`
	Severity         AnomalySeverity `json:"severity"`
}

// Gap is a contiguous span of more than 7 calendar days between two
// bucketed days with no transactions.
type Gap struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Days      int       `json:"days"`
}

// ActivityDrop is a day whose count collapsed below 30% of the daily
// average right after a day that exceeded the average.
type ActivityDrop struct {
	Date           time.Time `json:"date"`
	PreviousCount  int       `json:"previous_count"`
	CurrentCount   int       `json:"current_count"`
	DropPercentage float64   `json:"drop_percentage"`
}

// WeekSummary aggregates the present days of one week.
type WeekSummary struct {
	WeekStart        time.Time `json:"week_start"`
	TransactionCount int       `json:"transaction_count"`
	TotalAmount      float64   `json:"total_amount"`
	UniqueUsers      int       `json:"unique_users"`
}

// TemporalPatterns is the result of the temporal pattern analysis.
// A nil result means "not applicable" (fewer than 2 distinct days).
type TemporalPatterns struct {
	Gaps                 []Gap          `json:"gaps"`
	ActivityDrops        []ActivityDrop `json:"activity_drops"`
	BestWeek             *WeekSummary   `json:"best_week,omitempty"`
	WorstWeek            *WeekSummary   `json:"worst_week,omitempty"`
	AvgDailyTransactions float64        `json:"avg_daily_transactions"`
	TotalDays            int            `json:"total_days"`
}

// GrowthMetric is a current-vs-previous comparison of one metric.
// Zero-baseline convention: previous == 0 reports +100% when current is
// positive and 0% otherwise, never NaN or infinity.
type GrowthMetric struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	GrowthPercent float64 `json:"growth_percent"`
}

// QuarterGrowth holds the growth metrics of one quarter versus the
// quarter immediately before it in the selected window.
type QuarterGrowth struct {
	Quarter          string       `json:"quarter"` // YYYY-Qn
	Label            string       `json:"label"`
	Users            GrowthMetric `json:"users"`
	Revenue          GrowthMetric `json:"revenue"`
	AvgTicket        GrowthMetric `json:"avg_ticket"`
	TransactionCount GrowthMetric `json:"transaction_count"`
}

// QuarterlyComparison compares up to the 4 most recent quarters.
// Nil when fewer than 2 quarters are present after filtering.
type QuarterlyComparison struct {
	Quarters []Bucket        `json:"quarters"` // ordered, oldest first
	Growth   []QuarterGrowth `json:"growth"`   // one entry per quarter after the first
	Current  *QuarterGrowth  `json:"current"`  // headline: latest quarter vs the one before
	Previous Bucket          `json:"previous"` // the quarter the headline compares against
}

// RollingWindow describes one 90-day window of the rolling comparison.
type RollingWindow struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	UniqueUsers      int       `json:"unique_users"`
	TotalRevenue     float64   `json:"total_revenue"`
	TransactionCount int       `json:"transaction_count"`
	ReturningUsers   int       `json:"returning_users"`
}

// RollingComparison compares the trailing 90 days against the 90 days
// immediately before them, anchored at the latest transaction date.
type RollingComparison struct {
	Current       RollingWindow `json:"current"`
	Previous      RollingWindow `json:"previous"`
	UserGrowth    GrowthMetric  `json:"user_growth"`
	RevenueGrowth GrowthMetric  `json:"revenue_growth"`
}

// RankingEntry is one business row in a metric ranking.
type RankingEntry struct {
	BusinessName string  `json:"business_name"`
	Value        float64 `json:"value"`
}

// MetricRanking ranks the selected business against all others on one
// metric dimension.
type MetricRanking struct {
	Rank                        int     `json:"rank"` // 1 = highest
	TotalEntities               int     `json:"total_entities"`
	SelectedValue               float64 `json:"selected_value"`
	AverageValue                float64 `json:"average_value"`
	PercentDeviationFromAverage float64 `json:"percent_deviation_from_average"`
}

// RankingResult holds the selected business's position on every ranked
// dimension, computed over the business-unfiltered dataset.
type RankingResult struct {
	Business  string        `json:"business"`
	Users     MetricRanking `json:"users"`
	Revenue   MetricRanking `json:"revenue"`
	AvgTicket MetricRanking `json:"avg_ticket"`
}

// InsightCategory is the qualitative classification of a metric movement.
type InsightCategory string

const (
	InsightPositive InsightCategory = "positive"
	InsightNegative InsightCategory = "negative"
	InsightWarning  InsightCategory = "warning"
	InsightInfo     InsightCategory = "info"
)

// Insight is one categorized finding derived from the metrics bundle.
type Insight struct {
	ID          string          `json:"id"`
	Category    InsightCategory `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// MetricsBundle is the explicit typed input of the insight classifier.
// Every field defaults to zero when the underlying comparison was not
// applicable; zero values flow through the threshold table unchanged.
type MetricsBundle struct {
	UserGrowthPercent      float64 `json:"user_growth_percent"`
	RevenueGrowthPercent   float64 `json:"revenue_growth_percent"`
	AvgTicketGrowthPercent float64 `json:"avg_ticket_growth_percent"`
	AvgVisitsPerUser       float64 `json:"avg_visits_per_user"`
	RetentionRate          float64 `json:"retention_rate"` // returningUsers / uniqueUsers * 100
}
