package store

import (
	"context"
	"fmt"

	"crypto-sentiment-dashboard/internal/models"
)

// AddTradeViews stores scraped video comments.
func (s *Store) AddTradeViews(ctx context.Context, views []models.TradeView) error {
	if len(views) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&views, upsertBatchSize).Error; err != nil {
		return fmt.Errorf("could not store %d trade views: %w", len(views), err)
	}
	return nil
}

// ListTradeViews returns the comments of videoID, or of every video when videoID is empty.
func (s *Store) ListTradeViews(ctx context.Context, videoID string) ([]models.TradeView, error) {
	q := s.db.WithContext(ctx).Order("published_at").Order("id")
	if videoID != "" {
		q = q.Where("video_id = ?", videoID)
	}

	var views []models.TradeView
	if err := q.Find(&views).Error; err != nil {
		return nil, fmt.Errorf("could not list trade views: %w", err)
	}
	return views, nil
}
