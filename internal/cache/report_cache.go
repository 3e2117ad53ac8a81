package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/analytics"
	"github.com/bizpulse/bizpulse/internal/models"
)

// keyPrefix namespaces report keys in a shared redis instance.
const keyPrefix = "bizpulse:report:"

// ReportCache memoizes derived reports by their filter selection.
// Derived results are safe to cache because every computation is a
// pure function of (records, filter); the import path flushes the
// cache whenever new records land.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache creates a redis-backed report cache.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Key derives the cache key from the (business, location, dateRange)
// selection.
func Key(cfg models.FilterConfig) string {
	rangePart := "all"
	if cfg.DateRange != nil {
		rangePart = cfg.DateRange.Start.Format("2006-01-02") + ":" + cfg.DateRange.End.Format("2006-01-02")
	}
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, cfg.Business, cfg.Location, rangePart)
}

// Get returns the cached report for the selection, or nil on a miss.
// Cache failures degrade to a miss; the caller recomputes.
func (c *ReportCache) Get(ctx context.Context, cfg models.FilterConfig) *analytics.Report {
	payload, err := c.client.Get(ctx, Key(cfg)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Warn("Report cache read failed", zap.Error(err))
		return nil
	}

	var report analytics.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		c.logger.Warn("Discarding undecodable cached report", zap.Error(err))
		return nil
	}
	return &report
}

// Set stores a report under its selection key.
func (c *ReportCache) Set(ctx context.Context, cfg models.FilterConfig, report *analytics.Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("Failed to encode report for cache", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, Key(cfg), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Report cache write failed", zap.Error(err))
	}
}

// Flush drops every cached report. Called after imports invalidate
// all derived results.
func (c *ReportCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to flush report cache: %w", err)
	}

	c.logger.Info("Report cache flushed", zap.Int("keys", len(keys)))
	return nil
}
