package analytics

import (
	"time"

	"github.com/bizpulse/bizpulse/internal/models"
)

// rollingWindowDays is the fixed trailing comparison span.
const rollingWindowDays = 90

// CompareRollingWindow compares the trailing 90 days against the 90
// days immediately preceding them. The anchor is the latest record
// date after the business/location selection is applied; the date
// range of cfg is ignored because the windows define their own bounds.
// Returns nil when no records match the selection.
func CompareRollingWindow(records []models.Transaction, cfg models.FilterConfig) *models.RollingComparison {
	selection := cfg
	selection.DateRange = nil
	filtered := FilterTransactions(records, selection)
	if len(filtered) == 0 {
		return nil
	}

	anchor := dayOf(filtered[0].Date)
	for _, record := range filtered[1:] {
		if day := dayOf(record.Date); day.After(anchor) {
			anchor = day
		}
	}

	// Two contiguous, non-overlapping 90-day windows ending at the anchor.
	currentStart := anchor.AddDate(0, 0, -(rollingWindowDays - 1))
	previousEnd := currentStart.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(rollingWindowDays - 1))

	current := summarizeWindow(filtered, currentStart, anchor)
	previous := summarizeWindow(filtered, previousStart, previousEnd)

	return &models.RollingComparison{
		Current:       current,
		Previous:      previous,
		UserGrowth:    NewGrowthMetric(float64(current.UniqueUsers), float64(previous.UniqueUsers)),
		RevenueGrowth: NewGrowthMetric(current.TotalRevenue, previous.TotalRevenue),
	}
}

// summarizeWindow aggregates the records falling inside [start, end]
// inclusive at day precision.
func summarizeWindow(records []models.Transaction, start, end time.Time) models.RollingWindow {
	window := models.RollingWindow{Start: start, End: end}

	visits := make(map[string]int)
	for _, record := range records {
		day := dayOf(record.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		window.TransactionCount++
		window.TotalRevenue += record.Amount
		if record.Email != "" {
			visits[record.Email]++
		}
	}

	window.UniqueUsers = len(visits)
	for _, count := range visits {
		if count > 1 {
			window.ReturningUsers++
		}
	}

	return window
}
