package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/bizpulse/bizpulse/internal/models"
)

// bucketAccumulator collects per-period totals before materializing
// the distinct email set into a count.
type bucketAccumulator struct {
	label  string
	count  int
	amount float64
	emails map[string]bool
}

// BucketByDay groups records into daily buckets keyed by YYYY-MM-DD.
// Only days containing at least one record appear; zero buckets are
// never synthesized.
func BucketByDay(records []models.Transaction) []models.Bucket {
	return bucketBy(records, func(t time.Time) (string, string) {
		day := dayOf(t)
		return day.Format("2006-01-02"), day.Format("Jan 2, 2006")
	})
}

// BucketByWeek groups records into weekly buckets. Weeks start on
// Sunday; the key is the ISO date of the week start.
func BucketByWeek(records []models.Transaction) []models.Bucket {
	return bucketBy(records, func(t time.Time) (string, string) {
		start := weekStart(t)
		return start.Format("2006-01-02"), "Week of " + start.Format("Jan 2, 2006")
	})
}

// BucketByQuarter groups records into calendar quarters keyed by
// YYYY-Qn, with January through March forming Q1.
func BucketByQuarter(records []models.Transaction) []models.Bucket {
	return bucketBy(records, func(t time.Time) (string, string) {
		quarter := quarterOf(t.Month())
		key := fmt.Sprintf("%d-Q%d", t.Year(), quarter)
		return key, fmt.Sprintf("Q%d %d", quarter, t.Year())
	})
}

// bucketBy accumulates records per period key and returns buckets
// sorted by key. Day and week keys sort chronologically as plain
// strings; quarter keys sort chronologically because the quarter digit
// is single-width.
func bucketBy(records []models.Transaction, keyFn func(time.Time) (string, string)) []models.Bucket {
	acc := make(map[string]*bucketAccumulator)

	for _, record := range records {
		key, label := keyFn(record.Date)
		bucket, ok := acc[key]
		if !ok {
			bucket = &bucketAccumulator{label: label, emails: make(map[string]bool)}
			acc[key] = bucket
		}
		bucket.count++
		bucket.amount += record.Amount
		if record.Email != "" {
			bucket.emails[record.Email] = true
		}
	}

	buckets := make([]models.Bucket, 0, len(acc))
	for key, bucket := range acc {
		buckets = append(buckets, models.Bucket{
			Key:              key,
			Label:            bucket.label,
			TransactionCount: bucket.count,
			TotalAmount:      bucket.amount,
			UniqueUsers:      len(bucket.emails),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})

	return buckets
}

// dayOf truncates a timestamp to its calendar day in UTC.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Sunday on or before the given date.
func weekStart(t time.Time) time.Time {
	day := dayOf(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// quarterOf maps a month to its 1-based calendar quarter.
func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}
