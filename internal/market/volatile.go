// Package market selects the most volatile pairs from exchange tickers.
package market

import (
	"context"
	"fmt"
	"sort"

	"crypto-sentiment-dashboard/internal/binance"
	"crypto-sentiment-dashboard/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// VolatilePair is a pair with its 24h movement.
type VolatilePair struct {
	Symbol             string          `json:"symbol"`
	LastPrice          decimal.Decimal `json:"last_price"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
	HighPrice          decimal.Decimal `json:"high_price"`
	LowPrice           decimal.Decimal `json:"low_price"`
	QuoteVolume        decimal.Decimal `json:"quote_volume"`
}

// Service lists volatile pairs using a public exchange client.
type Service struct {
	logger *zap.Logger
	cfg    config.Market
	client binance.RestClientInterface
}

// NewService creates a market Service.
func NewService(logger *zap.Logger, cfg config.Market, client binance.RestClientInterface) *Service {
	return &Service{logger: logger.Named("market"), cfg: cfg, client: client}
}

// VolatilePairs returns up to limit liquid quote-asset pairs ordered by absolute 24h change.
// A non-positive limit uses the configured default.
func (s *Service) VolatilePairs(ctx context.Context, limit int) ([]VolatilePair, error) {
	if limit <= 0 {
		limit = s.cfg.Limit
	}

	// Symbol suffixes are ambiguous (ETHBUSD ends in USD), so the quote asset comes from exchange info.
	var allowed map[string]bool
	if s.cfg.QuoteAsset != "" {
		info, err := s.client.GetExchangeInfo(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get exchange info: %w", err)
		}
		allowed = QuoteSymbols(info.Symbols, s.cfg.QuoteAsset)
	}

	tickers, err := s.client.Get24hTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get 24h tickers: %w", err)
	}

	pairs := SelectVolatile(tickers, allowed, decimal.NewFromFloat(s.cfg.MinQuoteVolume), limit)
	s.logger.Debug("Selected volatile pairs", zap.Int("tickers", len(tickers)), zap.Int("selected", len(pairs)))
	return pairs, nil
}

// QuoteSymbols returns the trading symbols quoted in quoteAsset.
func QuoteSymbols(symbols []binance.SymbolInfo, quoteAsset string) map[string]bool {
	set := make(map[string]bool)
	for _, sym := range symbols {
		if sym.Status == binance.SymbolStatusTrading && sym.QuoteAsset == quoteAsset {
			set[sym.Symbol] = true
		}
	}
	return set
}

// SelectVolatile keeps tickers of allowed symbols (nil allows all) with at least minQuoteVolume,
// then orders them by absolute price change percent, largest first, ties broken by symbol.
func SelectVolatile(tickers []binance.Ticker24h, allowed map[string]bool, minQuoteVolume decimal.Decimal, limit int) []VolatilePair {
	pairs := make([]VolatilePair, 0, len(tickers))
	for _, t := range tickers {
		if allowed != nil && !allowed[t.Symbol] {
			continue
		}
		if t.QuoteVolume.LessThan(minQuoteVolume) {
			continue
		}
		pairs = append(pairs, VolatilePair{
			Symbol:             t.Symbol,
			LastPrice:          t.LastPrice,
			PriceChangePercent: t.PriceChangePercent,
			HighPrice:          t.HighPrice,
			LowPrice:           t.LowPrice,
			QuoteVolume:        t.QuoteVolume,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		ci, cj := pairs[i].PriceChangePercent.Abs(), pairs[j].PriceChangePercent.Abs()
		if !ci.Equal(cj) {
			return ci.GreaterThan(cj)
		}
		return pairs[i].Symbol < pairs[j].Symbol
	})

	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
