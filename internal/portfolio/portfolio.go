// Package portfolio keeps the stored asset balances in line with the exchange account.
package portfolio

import (
	"context"
	"fmt"

	"crypto-sentiment-dashboard/internal/binance"
	"crypto-sentiment-dashboard/internal/models"
	"go.uber.org/zap"
)

// AssetStore is the persistence the portfolio needs.
type AssetStore interface {
	GetCredentials(ctx context.Context, userID string) (*models.ExchangeCredential, error)
	ReplaceAssets(ctx context.Context, userID string, assets []models.Asset) error
	ListAssets(ctx context.Context, userID string) ([]models.Asset, error)
}

// ClientFactory builds an exchange client acting with the given credentials.
type ClientFactory func(creds binance.Credentials) binance.RestClientInterface

// Service syncs and lists user balances.
type Service struct {
	logger    *zap.Logger
	store     AssetStore
	newClient ClientFactory
}

// NewService creates a portfolio Service.
func NewService(logger *zap.Logger, store AssetStore, newClient ClientFactory) *Service {
	return &Service{logger: logger.Named("portfolio"), store: store, newClient: newClient}
}

// Sync pulls the account balances of userID from the exchange and stores the non-zero ones.
func (s *Service) Sync(ctx context.Context, userID string) ([]models.Asset, error) {
	cred, err := s.store.GetCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}

	client := s.newClient(binance.Credentials{APIKey: cred.APIKey, SecretKey: cred.SecretKey})
	account, err := client.GetAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch account balances: %w", err)
	}

	assets := make([]models.Asset, 0, len(account.Balances))
	for _, b := range account.Balances {
		if b.Free.Add(b.Locked).IsZero() {
			continue
		}
		assets = append(assets, models.Asset{Asset: b.Asset, Free: b.Free, Locked: b.Locked})
	}

	if err := s.store.ReplaceAssets(ctx, userID, assets); err != nil {
		return nil, err
	}
	s.logger.Info("Synced asset balances", zap.String("user_id", userID), zap.Int("assets", len(assets)))

	return s.store.ListAssets(ctx, userID)
}

// List returns the stored balances of userID.
func (s *Service) List(ctx context.Context, userID string) ([]models.Asset, error) {
	return s.store.ListAssets(ctx, userID)
}
