package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bizpulse/bizpulse/internal/models"
)

// tx builds a test transaction for a YYYY-MM-DD date.
func tx(t *testing.T, date, business, location, email string, amount float64) models.Transaction {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return models.Transaction{
		Date:         parsed,
		BusinessName: business,
		Location:     location,
		Email:        email,
		Amount:       amount,
	}
}

// day builds a parsed YYYY-MM-DD date.
func day(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed
}

// dailyBucket builds a daily bucket for a YYYY-MM-DD key.
func dailyBucket(key string, count int, amount float64, users int) models.Bucket {
	return models.Bucket{
		Key:              key,
		Label:            key,
		TransactionCount: count,
		TotalAmount:      amount,
		UniqueUsers:      users,
	}
}
