package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crypto-sentiment-dashboard/internal/api"
	"crypto-sentiment-dashboard/internal/auth"
	"crypto-sentiment-dashboard/internal/binance"
	"crypto-sentiment-dashboard/internal/config"
	"crypto-sentiment-dashboard/internal/database"
	"crypto-sentiment-dashboard/internal/logger"
	"crypto-sentiment-dashboard/internal/market"
	"crypto-sentiment-dashboard/internal/portfolio"
	"crypto-sentiment-dashboard/internal/sentiment"
	"crypto-sentiment-dashboard/internal/store"
	"crypto-sentiment-dashboard/internal/stream"
	"crypto-sentiment-dashboard/internal/suggestions"
	"crypto-sentiment-dashboard/internal/whales"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err == nil {
		err = cfg.Auth.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger("server", cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	st := store.New(db)

	// Exchange clients: one unauthenticated for market data, one per user for signed calls
	publicClient := binance.NewRestClient(&cfg.Binance, binance.Credentials{}, log)
	newClient := func(creds binance.Credentials) binance.RestClientInterface {
		return binance.NewRestClient(&cfg.Binance, creds, log)
	}

	strategy, err := suggestions.NewStrategy(cfg.Suggestions.Strategy)
	if err != nil {
		log.Fatal("Invalid suggestion strategy", zap.Error(err))
	}

	hub := stream.NewHub(log)
	ingestor := whales.NewIngestor(log, cfg.Whale, st, st, newClient)
	ingestor.SetPublisher(hub)

	handler := api.NewHandler(log, api.Dependencies{
		Store:       st,
		Verifier:    auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience),
		Whales:      ingestor,
		Sentiment:   sentiment.NewClassifier(cfg.Sentiment.BuyKeywords, cfg.Sentiment.SellKeywords),
		Market:      market.NewService(log, cfg.Market, publicClient),
		Portfolio:   portfolio.NewService(log, st, newClient),
		Suggestions: suggestions.NewService(log, st, strategy),
		Stream:      hub,
	})

	server := api.NewServer(cfg.Server, handler.Routes(), log)
	server.Start()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server has been shut down.")
}
