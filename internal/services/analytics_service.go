package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/analytics"
	"github.com/bizpulse/bizpulse/internal/cache"
	"github.com/bizpulse/bizpulse/internal/models"
	"github.com/bizpulse/bizpulse/internal/storage"
)

// AnalyticsService loads stored transactions, runs the analytics
// engine and memoizes the derived report per filter selection.
type AnalyticsService struct {
	store  *storage.TransactionStore
	engine *analytics.Engine
	cache  *cache.ReportCache
	groups models.BusinessGroupMap
	logger *zap.Logger
	tracer trace.Tracer
}

// NewAnalyticsService creates the analytics service. The cache is
// optional; a nil cache disables memoization.
func NewAnalyticsService(
	store *storage.TransactionStore,
	engine *analytics.Engine,
	reportCache *cache.ReportCache,
	groups models.BusinessGroupMap,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		engine: engine,
		cache:  reportCache,
		groups: groups,
		logger: logger,
		tracer: otel.Tracer("analytics-service"),
	}
}

// BuildReport computes (or returns the memoized) derived report for
// the given selection. The business-group map from configuration is
// attached to the selection before the core runs.
func (s *AnalyticsService) BuildReport(ctx context.Context, business, location string, dateRange *models.DateRange) (*analytics.Report, error) {
	ctx, span := s.tracer.Start(ctx, "service.BuildReport",
		trace.WithAttributes(
			attribute.String("business", business),
			attribute.String("location", location),
		))
	defer span.End()

	cfg := models.FilterConfig{
		Business:  business,
		Location:  location,
		DateRange: dateRange,
		Groups:    s.groups,
	}

	if s.cache != nil {
		if cached := s.cache.Get(ctx, cfg); cached != nil {
			s.logger.Debug("Serving cached report",
				zap.String("business", business),
				zap.String("location", location))
			return cached, nil
		}
	}

	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	report := s.engine.Analyze(ctx, records, cfg)

	if s.cache != nil {
		s.cache.Set(ctx, cfg, report)
	}

	return report, nil
}

// ListBusinesses exposes the distinct business names for selection.
func (s *AnalyticsService) ListBusinesses(ctx context.Context) ([]string, error) {
	return s.store.ListBusinesses(ctx)
}

// ImportTransactions stores a parsed batch and invalidates every
// memoized report, since all derived results are stale once new
// records land.
func (s *AnalyticsService) ImportTransactions(ctx context.Context, transactions []models.Transaction) error {
	if err := s.store.InsertBatch(ctx, transactions); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			s.logger.Warn("Failed to flush report cache after import", zap.Error(err))
		}
	}

	return nil
}
