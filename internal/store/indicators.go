package store

import (
	"context"
	"errors"
	"fmt"

	"crypto-sentiment-dashboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertIndicators stores coin indicators keyed by symbol.
func (s *Store) UpsertIndicators(ctx context.Context, indicators []models.CoinIndicator) error {
	if len(indicators) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "volatility", "signal", "source", "updated_at"}),
	}).CreateInBatches(&indicators, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("could not upsert %d indicators: %w", len(indicators), err)
	}
	return nil
}

// ListIndicators returns every coin indicator ordered by symbol.
func (s *Store) ListIndicators(ctx context.Context) ([]models.CoinIndicator, error) {
	var indicators []models.CoinIndicator
	if err := s.db.WithContext(ctx).Order("symbol").Find(&indicators).Error; err != nil {
		return nil, fmt.Errorf("could not list indicators: %w", err)
	}
	return indicators, nil
}

// GetIndicator returns the indicator of symbol or ErrNotFound.
func (s *Store) GetIndicator(ctx context.Context, symbol string) (*models.CoinIndicator, error) {
	var indicator models.CoinIndicator
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&indicator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not load indicator %s: %w", symbol, err)
	}
	return &indicator, nil
}
