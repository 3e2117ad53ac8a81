package rules

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/models"
)

// Classification thresholds. Evaluated per metric in a fixed priority
// order; the first matching branch wins, so every metric contributes
// at most one insight.
const (
	userGrowthPositive = 10.0
	userGrowthNegative = -5.0
	userGrowthWarning  = 5.0

	revenueGrowthPositive = 15.0
	revenueGrowthNegative = -10.0

	avgTicketGrowthPositive = 10.0
	avgTicketGrowthWarning  = -10.0

	retentionPositive = 40.0
	retentionNegative = 20.0

	avgVisitsPositive = 3.0
	avgVisitsWarning  = 1.5
)

// InsightRule maps one metric's movement to a categorized insight.
type InsightRule struct {
	Name      string
	Metric    string
	Condition func(models.MetricsBundle) bool
	Build     func(models.MetricsBundle) models.Insight
}

// InsightClassifier is a pure rule engine turning a metrics bundle
// into a categorized insight list. It holds no state between calls.
type InsightClassifier struct {
	ruleGroups [][]InsightRule
	logger     *zap.Logger
}

// NewInsightClassifier creates a classifier with the default rule set.
func NewInsightClassifier(logger *zap.Logger) *InsightClassifier {
	c := &InsightClassifier{logger: logger}
	c.ruleGroups = [][]InsightRule{
		c.userGrowthRules(),
		c.revenueGrowthRules(),
		c.avgTicketRules(),
		c.retentionRules(),
		c.avgVisitsRules(),
	}
	return c
}

// Classify evaluates every metric's rule group against the bundle.
// Within a group rules run in priority order and the first match wins.
func (c *InsightClassifier) Classify(bundle models.MetricsBundle) []models.Insight {
	insights := make([]models.Insight, 0)

	for _, group := range c.ruleGroups {
		for _, rule := range group {
			if rule.Condition(bundle) {
				insights = append(insights, rule.Build(bundle))
				break
			}
		}
	}

	c.logger.Debug("Metrics bundle classified",
		zap.Int("insights", len(insights)))

	return insights
}

func (c *InsightClassifier) userGrowthRules() []InsightRule {
	return []InsightRule{
		{
			Name:      "user_growth_strong",
			Metric:    "user_growth",
			Condition: func(b models.MetricsBundle) bool { return b.UserGrowthPercent > userGrowthPositive },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightPositive, "Strong user growth",
					fmt.Sprintf("Unique users grew %.1f%% versus the previous period.", b.UserGrowthPercent))
			},
		},
		{
			Name:      "user_growth_declining",
			Metric:    "user_growth",
			Condition: func(b models.MetricsBundle) bool { return b.UserGrowthPercent < userGrowthNegative },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightNegative, "User base shrinking",
					fmt.Sprintf("Unique users fell %.1f%% versus the previous period.", -b.UserGrowthPercent))
			},
		},
		{
			Name:      "user_growth_stalled",
			Metric:    "user_growth",
			Condition: func(b models.MetricsBundle) bool { return b.UserGrowthPercent < userGrowthWarning },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightWarning, "User growth stalled",
					fmt.Sprintf("Unique users moved only %.1f%%; acquisition is flat.", b.UserGrowthPercent))
			},
		},
	}
}

func (c *InsightClassifier) revenueGrowthRules() []InsightRule {
	return []InsightRule{
		{
			Name:      "revenue_growth_strong",
			Metric:    "revenue_growth",
			Condition: func(b models.MetricsBundle) bool { return b.RevenueGrowthPercent > revenueGrowthPositive },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightPositive, "Revenue accelerating",
					fmt.Sprintf("Revenue grew %.1f%% versus the previous period.", b.RevenueGrowthPercent))
			},
		},
		{
			Name:      "revenue_growth_declining",
			Metric:    "revenue_growth",
			Condition: func(b models.MetricsBundle) bool { return b.RevenueGrowthPercent < revenueGrowthNegative },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightNegative, "Revenue declining",
					fmt.Sprintf("Revenue fell %.1f%% versus the previous period.", -b.RevenueGrowthPercent))
			},
		},
	}
}

func (c *InsightClassifier) avgTicketRules() []InsightRule {
	return []InsightRule{
		{
			Name:      "avg_ticket_rising",
			Metric:    "avg_ticket_growth",
			Condition: func(b models.MetricsBundle) bool { return b.AvgTicketGrowthPercent > avgTicketGrowthPositive },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightPositive, "Average ticket rising",
					fmt.Sprintf("Average ticket grew %.1f%% versus the previous period.", b.AvgTicketGrowthPercent))
			},
		},
		{
			Name:      "avg_ticket_falling",
			Metric:    "avg_ticket_growth",
			Condition: func(b models.MetricsBundle) bool { return b.AvgTicketGrowthPercent < avgTicketGrowthWarning },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightWarning, "Average ticket falling",
					fmt.Sprintf("Average ticket fell %.1f%%; customers are spending less per visit.", -b.AvgTicketGrowthPercent))
			},
		},
	}
}

func (c *InsightClassifier) retentionRules() []InsightRule {
	return []InsightRule{
		{
			Name:      "retention_high",
			Metric:    "retention_rate",
			Condition: func(b models.MetricsBundle) bool { return b.RetentionRate > retentionPositive },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightPositive, "High customer retention",
					fmt.Sprintf("%.1f%% of customers came back more than once.", b.RetentionRate))
			},
		},
		{
			Name:      "retention_low",
			Metric:    "retention_rate",
			Condition: func(b models.MetricsBundle) bool { return b.RetentionRate < retentionNegative },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightNegative, "Low customer retention",
					fmt.Sprintf("Only %.1f%% of customers came back more than once.", b.RetentionRate))
			},
		},
		{
			Name:      "retention_moderate",
			Metric:    "retention_rate",
			Condition: func(b models.MetricsBundle) bool { return true },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightInfo, "Moderate customer retention",
					fmt.Sprintf("%.1f%% of customers came back more than once.", b.RetentionRate))
			},
		},
	}
}

func (c *InsightClassifier) avgVisitsRules() []InsightRule {
	return []InsightRule{
		{
			Name:      "avg_visits_high",
			Metric:    "avg_visits",
			Condition: func(b models.MetricsBundle) bool { return b.AvgVisitsPerUser > avgVisitsPositive },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightPositive, "Frequent repeat visits",
					fmt.Sprintf("Customers average %.1f visits in the period.", b.AvgVisitsPerUser))
			},
		},
		{
			Name:      "avg_visits_low",
			Metric:    "avg_visits",
			Condition: func(b models.MetricsBundle) bool { return b.AvgVisitsPerUser < avgVisitsWarning },
			Build: func(b models.MetricsBundle) models.Insight {
				return newInsight(models.InsightWarning, "Infrequent visits",
					fmt.Sprintf("Customers average only %.1f visits in the period.", b.AvgVisitsPerUser))
			},
		},
	}
}

func newInsight(category models.InsightCategory, title, description string) models.Insight {
	return models.Insight{
		ID:          uuid.New().String(),
		Category:    category,
		Title:       title,
		Description: description,
	}
}
