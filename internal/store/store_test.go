package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"crypto-sentiment-dashboard/internal/config"
	"crypto-sentiment-dashboard/internal/database"
	"crypto-sentiment-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a store on a fresh in-memory database.
func setupStore(t *testing.T) *Store {
	db, err := database.NewDatabase(config.Database{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	return New(db)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCredentials(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.GetCredentials(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNoCredentials)

	require.NoError(t, s.SaveCredentials(ctx, "user-1", "key-a", "secret-a"))
	require.NoError(t, s.SaveCredentials(ctx, "user-1", "key-b", "secret-b"))

	cred, err := s.GetCredentials(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "key-b", cred.APIKey)
	assert.Equal(t, "secret-b", cred.SecretKey)

	var count int64
	require.NoError(t, s.DB().Model(&models.ExchangeCredential{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertWhaleTrades_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	tradedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	trades := []models.WhaleTrade{
		{Symbol: "BTCUSDT", TradeID: 1, Price: dec("60000"), Quantity: dec("2"), Notional: dec("120000"), Side: models.SideBuy, TradedAt: tradedAt},
		{Symbol: "ETHUSDT", TradeID: 1, Price: dec("3000"), Quantity: dec("50"), Notional: dec("150000"), Side: models.SideSell, TradedAt: tradedAt},
	}
	require.NoError(t, s.UpsertWhaleTrades(ctx, trades))

	again := []models.WhaleTrade{
		{Symbol: "BTCUSDT", TradeID: 1, Price: dec("60000"), Quantity: dec("2"), Notional: dec("120000"), Side: models.SideSell, TradedAt: tradedAt},
	}
	require.NoError(t, s.UpsertWhaleTrades(ctx, again))
	require.NoError(t, s.UpsertWhaleTrades(ctx, nil))

	stored, err := s.ListWhaleTrades(ctx, WhaleFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	btc, err := s.ListWhaleTrades(ctx, WhaleFilter{Symbol: "BTCUSDT"})
	require.NoError(t, err)
	require.Len(t, btc, 1)
	assert.Equal(t, models.SideSell, btc[0].Side)
	assert.True(t, btc[0].Notional.Equal(dec("120000")))
}

func TestUpsertWhaleTrades_LargeBatch(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	tradedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// 5000 rows is ten pairs of five hundred trades, past sqlite's bound-variable limit
	// for a single insert.
	trades := make([]models.WhaleTrade, 0, 5000)
	for i := 0; i < 5000; i++ {
		trades = append(trades, models.WhaleTrade{
			Symbol: fmt.Sprintf("C%dUSDT", i%10), TradeID: int64(i), Price: dec("50000"), Quantity: dec("2"),
			Notional: dec("100000"), Side: models.SideBuy, TradedAt: tradedAt,
		})
	}
	require.NoError(t, s.UpsertWhaleTrades(ctx, trades))
	require.NoError(t, s.UpsertWhaleTrades(ctx, trades))

	var count int64
	require.NoError(t, s.DB().Model(&models.WhaleTrade{}).Count(&count).Error)
	assert.Equal(t, int64(5000), count)
}

func TestUpsertIndicators_LargeBatch(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	indicators := make([]models.CoinIndicator, 0, 5000)
	for i := 0; i < 5000; i++ {
		indicators = append(indicators, models.CoinIndicator{Symbol: fmt.Sprintf("C%dUSDT", i), Score: float64(i)})
	}
	require.NoError(t, s.UpsertIndicators(ctx, indicators))

	all, err := s.ListIndicators(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5000)
}

func TestListWhaleTrades_NewestFirstWithLimit(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	var trades []models.WhaleTrade
	for i := 0; i < 5; i++ {
		trades = append(trades, models.WhaleTrade{
			Symbol: "BTCUSDT", TradeID: int64(i), Notional: dec("100000"),
			Side: models.SideBuy, TradedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, s.UpsertWhaleTrades(ctx, trades))

	got, err := s.ListWhaleTrades(ctx, WhaleFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].TradeID)
	assert.Equal(t, int64(3), got[1].TradeID)
}

func TestWhaleStats(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertWhaleTrades(ctx, []models.WhaleTrade{
		{Symbol: "BTCUSDT", TradeID: 1, Notional: dec("100000"), Side: models.SideBuy, TradedAt: now.Add(-time.Hour)},
		{Symbol: "BTCUSDT", TradeID: 2, Notional: dec("250000.5"), Side: models.SideSell, TradedAt: now.Add(-2 * time.Hour)},
		{Symbol: "ETHUSDT", TradeID: 3, Notional: dec("500000"), Side: models.SideBuy, TradedAt: now.Add(-48 * time.Hour)},
	}))

	stats, err := s.WhaleStats(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Since24h.TotalTrades)
	assert.Equal(t, int64(1), stats.Since24h.BuyTrades)
	assert.Equal(t, int64(1), stats.Since24h.SellTrades)
	assert.True(t, stats.Since24h.TotalNotional.Equal(dec("350000.5")), stats.Since24h.TotalNotional.String())

	assert.Equal(t, int64(3), stats.AllTime.TotalTrades)
	assert.Equal(t, int64(2), stats.AllTime.BuyTrades)
	assert.True(t, stats.AllTime.TotalNotional.Equal(dec("850000.5")))
	assert.Equal(t, int64(1), stats.AllTime.SellTrades)
}

func TestWhaleStats_Empty(t *testing.T) {
	s := setupStore(t)

	stats, err := s.WhaleStats(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.AllTime.TotalTrades)
	assert.True(t, stats.AllTime.TotalNotional.IsZero())
	assert.True(t, stats.Since24h.TotalNotional.IsZero())
}

func TestTradeViews(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddTradeViews(ctx, []models.TradeView{
		{VideoID: "v1", Comment: "buy the dip", PublishedAt: at.Add(time.Minute)},
		{VideoID: "v1", Comment: "sell now", PublishedAt: at},
		{VideoID: "v2", Comment: "no idea", PublishedAt: at},
	}))

	v1, err := s.ListTradeViews(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, v1, 2)
	assert.Equal(t, "sell now", v1[0].Comment)

	all, err := s.ListTradeViews(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestIndicators(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertIndicators(ctx, []models.CoinIndicator{
		{Symbol: "ETH", Score: 0.4, Signal: "hold"},
		{Symbol: "BTC", Score: 0.9, Signal: "buy"},
	}))
	require.NoError(t, s.UpsertIndicators(ctx, []models.CoinIndicator{{Symbol: "ETH", Score: 0.7, Signal: "buy"}}))

	all, err := s.ListIndicators(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "BTC", all[0].Symbol)
	assert.Equal(t, 0.7, all[1].Score)

	_, err = s.GetIndicator(ctx, "DOGE")
	assert.ErrorIs(t, err, ErrNotFound)

	eth, err := s.GetIndicator(ctx, "ETH")
	require.NoError(t, err)
	assert.Equal(t, "buy", eth.Signal)
}

func TestReplaceAssets(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReplaceAssets(ctx, "user-1", []models.Asset{
		{Asset: "BTC", Free: dec("1.5")},
		{Asset: "ETH", Free: dec("10"), Locked: dec("2")},
	}))
	require.NoError(t, s.ReplaceAssets(ctx, "user-2", []models.Asset{{Asset: "BTC", Free: dec("3")}}))

	// ETH sold, BTC balance changed.
	require.NoError(t, s.ReplaceAssets(ctx, "user-1", []models.Asset{{Asset: "BTC", Free: dec("0.5")}}))

	assets, err := s.ListAssets(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "BTC", assets[0].Asset)
	assert.True(t, assets[0].Free.Equal(dec("0.5")))

	other, err := s.ListAssets(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	require.NoError(t, s.ReplaceAssets(ctx, "user-1", nil))
	assets, err = s.ListAssets(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDecisions(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDecision(ctx, &models.PredictionTrade{UserID: "u", Symbol: "BTC", Decision: models.DecisionBuy, Amount: dec("0.1")}))
	require.NoError(t, s.SaveDecision(ctx, &models.PredictionTrade{UserID: "u", Symbol: "ETH", Decision: models.DecisionSkip}))
	require.NoError(t, s.SaveDecision(ctx, &models.PredictionTrade{UserID: "u", Symbol: "BTC", Decision: models.DecisionSell, Amount: dec("0.2")}))
	require.NoError(t, s.SaveDecision(ctx, &models.PredictionTrade{UserID: "other", Symbol: "SOL", Decision: models.DecisionBuy}))

	decisions, err := s.ListDecisions(ctx, "u")
	require.NoError(t, err)
	require.Len(t, decisions, 2)

	bySymbol := map[string]models.PredictionTrade{}
	for _, d := range decisions {
		bySymbol[d.Symbol] = d
	}
	assert.Equal(t, models.DecisionSell, bySymbol["BTC"].Decision)
	assert.True(t, bySymbol["BTC"].Amount.Equal(dec("0.2")))

	decided, err := s.DecidedSymbols(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"BTC": true, "ETH": true}, decided)
}
