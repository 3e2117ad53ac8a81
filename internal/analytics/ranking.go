package analytics

import (
	"sort"

	"github.com/bizpulse/bizpulse/internal/models"
)

// businessFigures holds the per-business metrics the ranker sorts on.
type businessFigures struct {
	name      string
	users     int
	revenue   float64
	avgTicket float64
}

// RankBusiness ranks the selected business against every other
// business in the dataset by distinct users, revenue and average
// ticket. Records should be date-range-filtered but NOT business-
// filtered by the caller.
//
// Figures are computed per raw normalized business name; group aliases
// are not collapsed into the primary's figures. Group membership is
// used only to locate the selected business's row: the primary name is
// tried first, then each alias in order. Returns nil when the selected
// business has no row.
func RankBusiness(records []models.Transaction, selectedBusiness string, groups models.BusinessGroupMap) *models.RankingResult {
	figures := collectBusinessFigures(records)
	if len(figures) == 0 {
		return nil
	}

	selected := lookupSelectedRow(figures, selectedBusiness, groups)
	if selected == nil {
		return nil
	}

	result := &models.RankingResult{
		Business:  selected.name,
		Users:     rankMetric(figures, selected, func(f businessFigures) float64 { return float64(f.users) }),
		Revenue:   rankMetric(figures, selected, func(f businessFigures) float64 { return f.revenue }),
		AvgTicket: rankMetric(figures, selected, func(f businessFigures) float64 { return f.avgTicket }),
	}

	return result
}

// collectBusinessFigures aggregates users, revenue and average ticket
// per distinct business name, in first-appearance order so tie-breaks
// stay deterministic.
func collectBusinessFigures(records []models.Transaction) []businessFigures {
	type acc struct {
		emails  map[string]bool
		revenue float64
		count   int
	}

	index := make(map[string]*acc)
	var order []string

	for _, record := range records {
		if record.BusinessName == "" {
			continue
		}
		entry, ok := index[record.BusinessName]
		if !ok {
			entry = &acc{emails: make(map[string]bool)}
			index[record.BusinessName] = entry
			order = append(order, record.BusinessName)
		}
		entry.count++
		entry.revenue += record.Amount
		if record.Email != "" {
			entry.emails[record.Email] = true
		}
	}

	figures := make([]businessFigures, 0, len(order))
	for _, name := range order {
		entry := index[name]
		row := businessFigures{
			name:    name,
			users:   len(entry.emails),
			revenue: entry.revenue,
		}
		if entry.count > 0 {
			row.avgTicket = entry.revenue / float64(entry.count)
		}
		figures = append(figures, row)
	}

	return figures
}

// lookupSelectedRow finds the figures row for the selection, trying
// the name itself first and then its group aliases.
func lookupSelectedRow(figures []businessFigures, selected string, groups models.BusinessGroupMap) *businessFigures {
	candidates := []string{selected}
	if group, ok := groups[selected]; ok {
		candidates = append(candidates, group.Aliases...)
	}

	for _, name := range candidates {
		for i := range figures {
			if figures[i].name == name {
				return &figures[i]
			}
		}
	}
	return nil
}

// rankMetric positions the selected business on one metric dimension.
// The sort is stable and descending, so ties keep first-appearance
// order; rank 1 is the highest value.
func rankMetric(figures []businessFigures, selected *businessFigures, value func(businessFigures) float64) models.MetricRanking {
	sorted := make([]businessFigures, len(figures))
	copy(sorted, figures)
	sort.SliceStable(sorted, func(i, j int) bool {
		return value(sorted[i]) > value(sorted[j])
	})

	ranking := models.MetricRanking{
		TotalEntities: len(figures),
		SelectedValue: value(*selected),
	}

	total := 0.0
	for _, row := range figures {
		total += value(row)
	}
	ranking.AverageValue = total / float64(len(figures))

	for i, row := range sorted {
		if row.name == selected.name {
			ranking.Rank = i + 1
			break
		}
	}

	// Zero-average deviation mirrors the zero-baseline growth convention.
	if ranking.AverageValue != 0 {
		ranking.PercentDeviationFromAverage = (ranking.SelectedValue - ranking.AverageValue) / ranking.AverageValue * 100
	}

	return ranking
}
