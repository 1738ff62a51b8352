// Package whales detects large trades on the exchange and stores them.
package whales

import (
	"context"
	"fmt"

	"crypto-sentiment-dashboard/internal/binance"
	"crypto-sentiment-dashboard/internal/config"
	"crypto-sentiment-dashboard/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CredentialSource loads a user's exchange key pair.
type CredentialSource interface {
	GetCredentials(ctx context.Context, userID string) (*models.ExchangeCredential, error)
}

// TradeSink stores whale trades idempotently.
type TradeSink interface {
	UpsertWhaleTrades(ctx context.Context, trades []models.WhaleTrade) error
}

// Publisher is notified of freshly stored whale trades.
type Publisher interface {
	Publish(trades []models.WhaleTrade)
}

// ClientFactory builds an exchange client acting with the given credentials.
type ClientFactory func(creds binance.Credentials) binance.RestClientInterface

// Report summarizes one ingestion run.
type Report struct {
	UserID       string              `json:"user_id"`
	PairsScanned int                 `json:"pairs_scanned"`
	FailedPairs  []string            `json:"failed_pairs"`
	TradesSeen   int                 `json:"trades_seen"`
	WhaleTrades  int                 `json:"whale_trades"`
	Trades       []models.WhaleTrade `json:"trades"`
}

// Ingestor runs the whale-trade detection for a single user at a time.
type Ingestor struct {
	logger    *zap.Logger
	cfg       config.Whale
	threshold decimal.Decimal
	creds     CredentialSource
	sink      TradeSink
	newClient ClientFactory
	publisher Publisher
}

// NewIngestor creates an Ingestor.
func NewIngestor(logger *zap.Logger, cfg config.Whale, creds CredentialSource, sink TradeSink, newClient ClientFactory) *Ingestor {
	return &Ingestor{
		logger:    logger.Named("whales"),
		cfg:       cfg,
		threshold: decimal.NewFromFloat(cfg.Threshold),
		creds:     creds,
		sink:      sink,
		newClient: newClient,
	}
}

// SetPublisher registers p to receive every batch of stored trades.
func (i *Ingestor) SetPublisher(p Publisher) {
	i.publisher = p
}

// Ingest fetches recent trades of the first configured pairs with the credentials of userID
// and stores those whose notional value reaches the threshold.
func (i *Ingestor) Ingest(ctx context.Context, userID string) (*Report, error) {
	l := i.logger.With(zap.String("user_id", userID))

	// 1. Get the caller's exchange credentials
	cred, err := i.creds.GetCredentials(ctx, userID)
	if err != nil {
		return nil, err
	}
	client := i.newClient(binance.Credentials{APIKey: cred.APIKey, SecretKey: cred.SecretKey})

	// 2. Enumerate trading pairs
	info, err := client.GetExchangeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not enumerate trading pairs: %w", err)
	}
	pairs := i.selectPairs(info.Symbols)
	l.Info("Scanning pairs for whale trades", zap.Int("pairs", len(pairs)), zap.String("threshold", i.threshold.String()))

	report := &Report{UserID: userID, FailedPairs: []string{}, Trades: []models.WhaleTrade{}}

	// 3. Fetch and filter recent trades, one pair at a time
	for _, symbol := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.PairsScanned++

		trades, err := client.GetRecentTrades(ctx, symbol, i.cfg.TradeLimit)
		if err != nil {
			l.Warn("Failed to fetch recent trades, skipping pair", zap.String("symbol", symbol), zap.Error(err))
			report.FailedPairs = append(report.FailedPairs, symbol)
			continue
		}
		report.TradesSeen += len(trades)

		whales := i.filter(symbol, trades)
		if len(whales) > 0 {
			l.Debug("Found whale trades", zap.String("symbol", symbol), zap.Int("count", len(whales)))
		}
		report.Trades = append(report.Trades, whales...)
	}

	// 4. Store everything that qualified
	if err := i.sink.UpsertWhaleTrades(ctx, report.Trades); err != nil {
		return nil, err
	}
	report.WhaleTrades = len(report.Trades)

	if i.publisher != nil && len(report.Trades) > 0 {
		i.publisher.Publish(report.Trades)
	}

	l.Info("Whale ingestion complete",
		zap.Int("pairs_scanned", report.PairsScanned),
		zap.Int("failed_pairs", len(report.FailedPairs)),
		zap.Int("trades_seen", report.TradesSeen),
		zap.Int("whale_trades", report.WhaleTrades),
	)
	return report, nil
}

// selectPairs keeps trading symbols of the configured quote asset, in exchange order,
// capped at MaxPairs to stay well inside the exchange request weight.
func (i *Ingestor) selectPairs(symbols []binance.SymbolInfo) []string {
	pairs := make([]string, 0, i.cfg.MaxPairs)
	for _, s := range symbols {
		if len(pairs) == i.cfg.MaxPairs {
			break
		}
		if s.Status != binance.SymbolStatusTrading {
			continue
		}
		if i.cfg.QuoteAsset != "" && s.QuoteAsset != i.cfg.QuoteAsset {
			continue
		}
		pairs = append(pairs, s.Symbol)
	}
	return pairs
}

// filter converts the trades of symbol whose notional meets the threshold.
func (i *Ingestor) filter(symbol string, trades []binance.RecentTrade) []models.WhaleTrade {
	var whales []models.WhaleTrade
	for _, t := range trades {
		notional := t.Notional()
		if notional.LessThan(i.threshold) {
			continue
		}

		// A maker buyer means the aggressor sold.
		side := models.SideBuy
		if t.IsBuyerMaker {
			side = models.SideSell
		}

		whales = append(whales, models.WhaleTrade{
			Symbol:   symbol,
			TradeID:  t.ID,
			Price:    t.Price,
			Quantity: t.Quantity,
			Notional: notional,
			Side:     side,
			TradedAt: t.TradedAt(),
		})
	}
	return whales
}
