package store

import (
	"context"
	"errors"
	"fmt"

	"crypto-sentiment-dashboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetCredentials returns the exchange key pair stored for userID.
func (s *Store) GetCredentials(ctx context.Context, userID string) (*models.ExchangeCredential, error) {
	var cred models.ExchangeCredential
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("could not load credentials for user %s: %w", userID, err)
	}
	return &cred, nil
}

// SaveCredentials creates or replaces the key pair of userID.
func (s *Store) SaveCredentials(ctx context.Context, userID, apiKey, secretKey string) error {
	cred := models.ExchangeCredential{UserID: userID, APIKey: apiKey, SecretKey: secretKey}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"api_key", "secret_key", "updated_at"}),
	}).Create(&cred).Error
	if err != nil {
		return fmt.Errorf("could not save credentials for user %s: %w", userID, err)
	}
	return nil
}
