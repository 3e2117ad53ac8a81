package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bizpulse/bizpulse/internal/analytics"
	"github.com/bizpulse/bizpulse/internal/models"
	"github.com/bizpulse/bizpulse/internal/rules"
	"github.com/bizpulse/bizpulse/internal/storage"
)

// newMockService builds an AnalyticsService over a sqlmock-backed store
// with memoization disabled.
func newMockService(t *testing.T, groups models.BusinessGroupMap) (*AnalyticsService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	logger := zap.NewNop()
	store := storage.NewTransactionStore(gormDB, logger)
	engine := analytics.NewEngine(rules.NewInsightClassifier(logger), rules.NewRecommender(logger), logger)

	return NewAnalyticsService(store, engine, nil, groups, logger), mock
}

func TestBuildReport(t *testing.T) {
	service, mock := newMockService(t, nil)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "business_name", "location", "email", "amount"}).
		AddRow("11111111-1111-1111-1111-111111111111", date, "CAFE AURORA", "Palermo", "a@x.com", 100.0).
		AddRow("22222222-2222-2222-2222-222222222222", date.AddDate(0, 0, 1), "CAFE AURORA", "Palermo", "a@x.com", 80.0).
		AddRow("33333333-3333-3333-3333-333333333333", date.AddDate(0, 0, 1), "BAR LUNA", "Centro", "b@x.com", 60.0)

	mock.ExpectQuery(`SELECT \* FROM "transactions" ORDER BY date asc`).
		WillReturnRows(rows)

	report, err := service.BuildReport(context.Background(), "CAFE AURORA", models.AllLocations, nil)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.RecordCount)
	assert.Equal(t, "CAFE AURORA", report.Filter.Business)
	assert.Len(t, report.DailyBuckets, 2)
	assert.NotEmpty(t, report.Recommendations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildReportStoreFailure(t *testing.T) {
	service, mock := newMockService(t, nil)

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnError(gorm.ErrInvalidDB)

	_, err := service.BuildReport(context.Background(), models.AllBusinesses, models.AllLocations, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load transactions")
}

// TestBuildReportAttachesGroups verifies the configured group map
// reaches the engine's filter, so alias records count toward the
// selected primary.
func TestBuildReportAttachesGroups(t *testing.T) {
	groups := models.BusinessGroupMap{
		"CAFE AURORA": {Primary: "CAFE AURORA", Aliases: []string{"AURORA COFFEE"}},
	}
	service, mock := newMockService(t, groups)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "business_name", "location", "email", "amount"}).
		AddRow("11111111-1111-1111-1111-111111111111", date, "AURORA COFFEE", "Palermo", "a@x.com", 100.0)

	mock.ExpectQuery(`SELECT \* FROM "transactions" ORDER BY date asc`).
		WillReturnRows(rows)

	report, err := service.BuildReport(context.Background(), "CAFE AURORA", models.AllLocations, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RecordCount)
}
