package storage

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

	"github.com/bizpulse/bizpulse/internal/models"
)

// newMockStore creates a TransactionStore backed by a sqlmock
// connection.
func newMockStore(t *testing.T) (*TransactionStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewTransactionStore(gormDB, zap.NewNop()), mock
}

func TestListAll(t *testing.T) {
	store, mock := newMockStore(t)

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "date", "business_name", "location", "email", "amount"}).
		AddRow("11111111-1111-1111-1111-111111111111", date, "CAFE AURORA", "Palermo", "a@x.com", 100.5).
		AddRow("22222222-2222-2222-2222-222222222222", date.AddDate(0, 0, 1), "BAR LUNA", "Centro", "b@x.com", 80.0)

	mock.ExpectQuery(`SELECT \* FROM "transactions" ORDER BY date asc`).
		WillReturnRows(rows)

	transactions, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "CAFE AURORA", transactions[0].BusinessName)
	assert.InDelta(t, 80.0, transactions[1].Amount, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllQueryFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "transactions"`).
		WillReturnError(gorm.ErrInvalidDB)

	_, err := store.ListAll(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list transactions")
}

func TestListBusinesses(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"business_name"}).
		AddRow("BAR LUNA").
		AddRow("CAFE AURORA")

	mock.ExpectQuery(`SELECT DISTINCT "business_name" FROM "transactions" ORDER BY business_name asc`).
		WillReturnRows(rows)

	names, err := store.ListBusinesses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"BAR LUNA", "CAFE AURORA"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestDate(t *testing.T) {
	store, mock := newMockStore(t)

	latest := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(date\), '0001-01-01'\) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(latest))

	got, err := store.LatestDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, latest, got)
}

func TestInsertBatchEmpty(t *testing.T) {
	store, mock := newMockStore(t)

	// No statements expected for an empty batch.
	require.NoError(t, store.InsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatch(t *testing.T) {
	store, mock := newMockStore(t)

	transactions := []models.Transaction{
		{
			Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			BusinessName: "CAFE AURORA",
			Location:     "Palermo",
			Email:        "a@x.com",
			Amount:       100.5,
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("11111111-1111-1111-1111-111111111111"))
	mock.ExpectCommit()

	require.NoError(t, store.InsertBatch(context.Background(), transactions))
	assert.NoError(t, mock.ExpectationsWereMet())
}
