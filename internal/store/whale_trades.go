package store

import (
	"context"
	"fmt"
	"time"

	"crypto-sentiment-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

const (
	defaultWhaleListLimit = 100
	// upsertBatchSize keeps a single statement well below the bound-variable limit of
	// sqlite (32766) and postgres (65535).
	upsertBatchSize = 500
)

// WhaleFilter narrows ListWhaleTrades.
type WhaleFilter struct {
	Symbol string
	Limit  int
}

// UpsertWhaleTrades inserts trades, updating rows that already exist for the same
// symbol and exchange trade id. Re-ingesting a trade never duplicates it.
func (s *Store) UpsertWhaleTrades(ctx context.Context, trades []models.WhaleTrade) error {
	if len(trades) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "trade_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "quantity", "notional", "side", "traded_at", "updated_at"}),
	}).CreateInBatches(&trades, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("could not upsert %d whale trades: %w", len(trades), err)
	}
	return nil
}

// ListWhaleTrades returns whale trades, newest first.
func (s *Store) ListWhaleTrades(ctx context.Context, filter WhaleFilter) ([]models.WhaleTrade, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultWhaleListLimit
	}

	q := s.db.WithContext(ctx).Order("traded_at desc").Order("id desc").Limit(limit)
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}

	var trades []models.WhaleTrade
	if err := q.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("could not list whale trades: %w", err)
	}
	return trades, nil
}

// WhaleStatsDetail holds aggregated whale activity for a given period.
type WhaleStatsDetail struct {
	TotalTrades   int64           `json:"total_trades"`
	BuyTrades     int64           `json:"buy_trades"`
	SellTrades    int64           `json:"sell_trades"`
	TotalNotional decimal.Decimal `json:"total_notional"`
}

// sideTotals is one row of the per-side aggregation.
type sideTotals struct {
	Side     string
	Trades   int64
	Notional decimal.Decimal
}

func (d *WhaleStatsDetail) add(row sideTotals) {
	d.TotalTrades += row.Trades
	switch row.Side {
	case models.SideBuy:
		d.BuyTrades += row.Trades
	case models.SideSell:
		d.SellTrades += row.Trades
	}
	d.TotalNotional = d.TotalNotional.Add(row.Notional)
}

// WhaleStats is the structure returned for the whale statistics endpoint.
type WhaleStats struct {
	Since24h WhaleStatsDetail `json:"since_24h"`
	AllTime  WhaleStatsDetail `json:"all_time"`
}

// WhaleStats aggregates stored whale trades for the last 24 hours before now and all time.
func (s *Store) WhaleStats(ctx context.Context, now time.Time) (*WhaleStats, error) {
	allTime, err := s.whaleTotals(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	recent, err := s.whaleTotals(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	return &WhaleStats{Since24h: recent, AllTime: allTime}, nil
}

// whaleTotals counts and sums whale trades per side, restricted to trades after since
// unless since is zero.
func (s *Store) whaleTotals(ctx context.Context, since time.Time) (WhaleStatsDetail, error) {
	q := s.db.WithContext(ctx).Model(&models.WhaleTrade{}).
		Select("side, COUNT(*) AS trades, COALESCE(SUM(notional), 0) AS notional").
		Group("side")
	if !since.IsZero() {
		q = q.Where("traded_at > ?", since.UTC())
	}

	var rows []sideTotals
	if err := q.Scan(&rows).Error; err != nil {
		return WhaleStatsDetail{}, fmt.Errorf("could not aggregate whale trades: %w", err)
	}

	var detail WhaleStatsDetail
	for _, row := range rows {
		detail.add(row)
	}
	return detail, nil
}
