package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bizpulse/bizpulse/internal/models"
)

// TransactionStore persists normalized transactions in postgres.
// The analytics core never touches the store directly; the service
// layer loads records and hands them to the engine as a value slice.
type TransactionStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTransactionStore creates a transaction store.
func NewTransactionStore(db *gorm.DB, logger *zap.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

// RunMigrations creates or updates the transactions schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate transactions table: %w", err)
	}
	return nil
}

// InsertBatch stores a batch of imported transactions.
func (s *TransactionStore) InsertBatch(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).CreateInBatches(transactions, 500).Error; err != nil {
		return fmt.Errorf("failed to insert transactions: %w", err)
	}

	s.logger.Info("Transactions stored",
		zap.Int("count", len(transactions)))

	return nil
}

// ListAll returns every stored transaction ordered by date. The
// analytics engine expects the full record set; filtering is the
// core's job, not the store's.
func (s *TransactionStore) ListAll(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).Order("date asc").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// ListBusinesses returns the distinct business names present in the
// store, for populating selection dropdowns.
func (s *TransactionStore) ListBusinesses(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("business_name").
		Order("business_name asc").
		Pluck("business_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return names, nil
}

// LatestDate returns the most recent transaction date, or a zero time
// when the store is empty.
func (s *TransactionStore) LatestDate(ctx context.Context) (time.Time, error) {
	var latest time.Time
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(MAX(date), '0001-01-01')").
		Scan(&latest).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest date: %w", err)
	}
	return latest, nil
}
