package rules

import (
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/models"
)

// RecommendationRule emits action suggestions when a metric crosses
// the same thresholds the classifier uses.
type RecommendationRule struct {
	Name            string
	Condition       func(models.MetricsBundle) bool
	Recommendations []string
}

// Recommender is the second, independent rule set next to the insight
// classifier. It never returns an empty list: when no rule fires the
// fixed default set is emitted.
type Recommender struct {
	rules  []RecommendationRule
	logger *zap.Logger
}

// NewRecommender creates a recommender with the default rule set.
func NewRecommender(logger *zap.Logger) *Recommender {
	return &Recommender{
		logger: logger,
		rules: []RecommendationRule{
			{
				Name:      "acquisition_push",
				Condition: func(b models.MetricsBundle) bool { return b.UserGrowthPercent < userGrowthWarning },
				Recommendations: []string{
					"Launch an acquisition campaign targeting lapsed and lookalike audiences.",
					"Promote a first-visit discount through local channels to bring in new customers.",
				},
			},
			{
				Name:      "revenue_recovery",
				Condition: func(b models.MetricsBundle) bool { return b.RevenueGrowthPercent < revenueGrowthNegative },
				Recommendations: []string{
					"Review pricing and run a limited-time promotion to recover revenue.",
				},
			},
			{
				Name:      "ticket_uplift",
				Condition: func(b models.MetricsBundle) bool { return b.AvgTicketGrowthPercent < avgTicketGrowthWarning },
				Recommendations: []string{
					"Introduce bundles or add-ons at checkout to lift the average ticket.",
				},
			},
			{
				Name:      "retention_program",
				Condition: func(b models.MetricsBundle) bool { return b.RetentionRate < retentionNegative },
				Recommendations: []string{
					"Start a loyalty program rewarding the second visit to improve retention.",
				},
			},
			{
				Name:      "visit_frequency",
				Condition: func(b models.MetricsBundle) bool { return b.AvgVisitsPerUser < avgVisitsWarning },
				Recommendations: []string{
					"Send return-visit incentives to customers who have not transacted recently.",
				},
			},
		},
	}
}

// Recommend evaluates every rule against the bundle and concatenates
// the recommendations of the ones that fire, falling back to the
// default set when none do. The insights argument is accepted for
// future rules keyed on classification output; the current set keys
// off the bundle alone.
func (r *Recommender) Recommend(bundle models.MetricsBundle, insights []models.Insight) []string {
	var out []string
	for _, rule := range r.rules {
		if rule.Condition(bundle) {
			out = append(out, rule.Recommendations...)
		}
	}

	if len(out) == 0 {
		return DefaultRecommendations()
	}

	r.logger.Debug("Recommendations generated",
		zap.Int("count", len(out)))

	return out
}

// DefaultRecommendations is the fixed generic set used when no
// threshold rule fires. Never empty.
func DefaultRecommendations() []string {
	return []string{
		"Keep monitoring weekly transaction volume for early signs of change.",
		"Compare performance against similar businesses in your area each quarter.",
		"Collect customer emails at checkout to improve repeat-visit tracking.",
	}
}
