package store

import (
	"context"
	"fmt"

	"crypto-sentiment-dashboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReplaceAssets makes the stored balances of userID equal to assets:
// held assets are upserted, assets no longer held are removed.
func (s *Store) ReplaceAssets(ctx context.Context, userID string, assets []models.Asset) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		held := make([]string, 0, len(assets))
		for i := range assets {
			assets[i].UserID = userID
			held = append(held, assets[i].Asset)
		}

		stale := tx.Unscoped().Where("user_id = ?", userID)
		if len(held) > 0 {
			stale = stale.Where("asset NOT IN ?", held)
		}
		if err := stale.Delete(&models.Asset{}).Error; err != nil {
			return fmt.Errorf("could not remove stale assets for user %s: %w", userID, err)
		}

		if len(assets) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "asset"}},
			DoUpdates: clause.AssignmentColumns([]string{"free", "locked", "updated_at"}),
		}).Create(&assets).Error
		if err != nil {
			return fmt.Errorf("could not upsert assets for user %s: %w", userID, err)
		}
		return nil
	})
}

// ListAssets returns the stored balances of userID ordered by asset.
func (s *Store) ListAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("asset").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("could not list assets for user %s: %w", userID, err)
	}
	return assets, nil
}
