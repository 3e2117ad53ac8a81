package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bizpulse/bizpulse/internal/cache"
	"github.com/bizpulse/bizpulse/internal/config"
	"github.com/bizpulse/bizpulse/internal/ingest"
	"github.com/bizpulse/bizpulse/internal/storage"
)

func main() {
	filePath := flag.String("file", "", "path to the transaction CSV export")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: import -file <transactions.csv>")
	}

	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	file, err := os.Open(*filePath)
	if err != nil {
		logger.Fatal("Failed to open CSV file", zap.Error(err))
	}
	defer file.Close()

	parser := ingest.NewParser(ingest.NewNormalizer(), logger)
	transactions, stats, err := parser.Parse(file)
	if err != nil {
		logger.Fatal("Failed to parse CSV", zap.Error(err))
	}

	db, err := openDatabase()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := storage.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	store := storage.NewTransactionStore(db, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := store.InsertBatch(ctx, transactions); err != nil {
		logger.Fatal("Failed to store transactions", zap.Error(err))
	}

	flushReportCache(ctx, logger)

	logger.Info("Import completed",
		zap.String("file", *filePath),
		zap.Int("rows_read", stats.RowsRead),
		zap.Int("imported", stats.Parsed),
		zap.Int("dropped_dates", stats.DroppedDates))
}

func openDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		viper.GetString("database.host"),
		viper.GetString("database.user"),
		viper.GetString("database.password"),
		viper.GetString("database.name"),
		viper.GetInt("database.port"),
		viper.GetString("database.ssl_mode"))

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// flushReportCache drops memoized reports so the next request sees
// the imported records. Redis being down is non-fatal for an import.
func flushReportCache(ctx context.Context, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, skipping cache flush", zap.Error(err))
		return
	}

	reportCache := cache.NewReportCache(client, 0, logger)
	if err := reportCache.Flush(ctx); err != nil {
		logger.Warn("Failed to flush report cache", zap.Error(err))
	}
}
