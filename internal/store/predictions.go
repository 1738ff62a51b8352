package store

import (
	"context"
	"fmt"

	"crypto-sentiment-dashboard/internal/models"
	"gorm.io/gorm/clause"
)

// SaveDecision records a user's decision on a symbol, replacing an earlier one.
func (s *Store) SaveDecision(ctx context.Context, prediction *models.PredictionTrade) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"decision", "amount", "note", "updated_at"}),
	}).Create(prediction).Error
	if err != nil {
		return fmt.Errorf("could not save decision on %s for user %s: %w", prediction.Symbol, prediction.UserID, err)
	}
	return nil
}

// ListDecisions returns the decisions of userID, most recently updated first.
func (s *Store) ListDecisions(ctx context.Context, userID string) ([]models.PredictionTrade, error) {
	var predictions []models.PredictionTrade
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").Order("id desc").
		Find(&predictions).Error
	if err != nil {
		return nil, fmt.Errorf("could not list decisions for user %s: %w", userID, err)
	}
	return predictions, nil
}

// DecidedSymbols returns the set of symbols userID already decided on.
func (s *Store) DecidedSymbols(ctx context.Context, userID string) (map[string]bool, error) {
	var symbols []string
	err := s.db.WithContext(ctx).Model(&models.PredictionTrade{}).
		Where("user_id = ?", userID).
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("could not load decided symbols for user %s: %w", userID, err)
	}

	decided := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		decided[symbol] = true
	}
	return decided, nil
}
