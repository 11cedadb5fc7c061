package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/billspring/mandate-service/internal/config"
	"github.com/billspring/mandate-service/internal/infrastructure/database"
	"github.com/billspring/mandate-service/internal/infrastructure/provider/twikey"
	"github.com/billspring/mandate-service/internal/usecase"
	"github.com/billspring/mandate-service/pkg/logger"
)

// sync-feed runs a single mandate feed reconciliation pass and exits. It is
// meant to be scheduled from cron as a safety net for missed webhooks.
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Log.Development,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	client := twikey.NewClient(cfg.Service.Twikey.BaseURL, zapLogger)
	feed := usecase.NewFeedService(client, repos.Mandate, repos.Customer,
		repos.Language, repos.Country, repos.Setting, zapLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if err := feed.UpdateFeed(ctx); err != nil {
		zapLogger.Fatal("Feed reconciliation failed", zap.Error(err))
	}

	zapLogger.Info("Feed reconciliation completed",
		zap.Duration("elapsed", time.Since(start)))
}
