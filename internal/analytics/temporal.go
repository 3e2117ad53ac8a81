package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/bizpulse/bizpulse/internal/models"
)

const (
	// Calendar days between present days before the span counts as a gap.
	gapThresholdDays = 7

	// A drop is flagged when the day's count falls below this fraction
	// of the daily average after an above-average day.
	dropRatio = 0.3

	// Reported drops are capped to the first 5 in chronological order.
	// Intentionally not the 5 most severe.
	maxReportedDrops = 5
)

// AnalyzeTemporalPatterns detects inactivity gaps, sharp day-over-day
// activity drops and the best/worst week over the filtered window.
// Requires at least 2 distinct daily buckets; returns nil ("not
// applicable") otherwise.
func AnalyzeTemporalPatterns(dailyBuckets []models.Bucket, totalRecordCount int) *models.TemporalPatterns {
	days := presentDays(dailyBuckets)
	if len(days) < 2 {
		return nil
	}

	first := days[0].date
	last := days[len(days)-1].date
	totalDays := int(math.Ceil(last.Sub(first).Hours()/24)) + 1
	avgDaily := float64(totalRecordCount) / float64(totalDays)

	result := &models.TemporalPatterns{
		AvgDailyTransactions: avgDaily,
		TotalDays:            totalDays,
	}

	result.Gaps = detectGaps(days)
	result.ActivityDrops = detectDrops(days, avgDaily)
	result.BestWeek, result.WorstWeek = bestWorstWeeks(days)

	return result
}

// presentDay is a daily bucket with its key parsed back to a date.
type presentDay struct {
	date   time.Time
	bucket models.Bucket
}

// presentDays parses and chronologically sorts the daily buckets,
// dropping any bucket with an unparsable key.
func presentDays(dailyBuckets []models.Bucket) []presentDay {
	days := make([]presentDay, 0, len(dailyBuckets))
	for _, bucket := range dailyBuckets {
		date, err := time.Parse("2006-01-02", bucket.Key)
		if err != nil {
			continue
		}
		days = append(days, presentDay{date: date, bucket: bucket})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].date.Before(days[j].date)
	})
	return days
}

// detectGaps emits a Gap for every pair of chronologically consecutive
// present days more than gapThresholdDays calendar days apart.
func detectGaps(days []presentDay) []models.Gap {
	var gaps []models.Gap
	for i := 1; i < len(days); i++ {
		diff := int(math.Ceil(days[i].date.Sub(days[i-1].date).Hours() / 24))
		if diff > gapThresholdDays {
			gaps = append(gaps, models.Gap{
				StartDate: days[i-1].date,
				EndDate:   days[i].date,
				Days:      diff,
			})
		}
	}
	return gaps
}

// detectDrops flags days that collapsed below dropRatio of the daily
// average immediately after an above-average day, capped to the first
// maxReportedDrops in chronological order.
func detectDrops(days []presentDay, avgDaily float64) []models.ActivityDrop {
	var drops []models.ActivityDrop
	for i := 1; i < len(days); i++ {
		previous := days[i-1].bucket.TransactionCount
		current := days[i].bucket.TransactionCount

		if float64(previous) <= avgDaily || float64(current) >= avgDaily*dropRatio {
			continue
		}

		drops = append(drops, models.ActivityDrop{
			Date:           days[i].date,
			PreviousCount:  previous,
			CurrentCount:   current,
			DropPercentage: float64(previous-current) / float64(previous) * 100,
		})
		if len(drops) == maxReportedDrops {
			break
		}
	}
	return drops
}

// bestWorstWeeks groups present days into weeks starting on Sunday and
// picks the weeks with the highest and lowest transaction counts. Ties
// resolve to the first week encountered in chronological order.
func bestWorstWeeks(days []presentDay) (*models.WeekSummary, *models.WeekSummary) {
	weekIndex := make(map[time.Time]*models.WeekSummary)
	var order []time.Time

	for _, day := range days {
		start := weekStart(day.date)
		week, ok := weekIndex[start]
		if !ok {
			week = &models.WeekSummary{WeekStart: start}
			weekIndex[start] = week
			order = append(order, start)
		}
		week.TransactionCount += day.bucket.TransactionCount
		week.TotalAmount += day.bucket.TotalAmount
		week.UniqueUsers += day.bucket.UniqueUsers
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	var best, worst *models.WeekSummary
	for _, start := range order {
		week := weekIndex[start]
		if best == nil || week.TransactionCount > best.TransactionCount {
			best = week
		}
		if worst == nil || week.TransactionCount < worst.TransactionCount {
			worst = week
		}
	}

	return best, worst
}
