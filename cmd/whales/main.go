package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"crypto-sentiment-dashboard/internal/binance"
	"crypto-sentiment-dashboard/internal/config"
	"crypto-sentiment-dashboard/internal/database"
	"crypto-sentiment-dashboard/internal/logger"
	"crypto-sentiment-dashboard/internal/store"
	"crypto-sentiment-dashboard/internal/whales"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// The logger is not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger("whales", cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Check connectivity before touching any user credentials
	publicClient := binance.NewRestClient(&cfg.Binance, binance.Credentials{}, log)
	if _, err := publicClient.GetServerTime(ctx); err != nil {
		log.Fatal("Failed to connect to Binance API", zap.Error(err))
	}
	log.Info("Successfully connected to Binance API.")

	st := store.New(db)
	ingestor := whales.NewIngestor(log, cfg.Whale, st, st, func(creds binance.Credentials) binance.RestClientInterface {
		return binance.NewRestClient(&cfg.Binance, creds, log)
	})

	runner := whales.NewRunner(log, ingestor, cfg.Whale.UserID, cfg.Whale.Interval)
	if err := runner.Run(ctx); err != nil {
		log.Fatal("Whale ingestion failed", zap.Error(err))
	}

	log.Info("Whale ingestion has been shut down.")
}
