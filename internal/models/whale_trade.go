package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// WhaleTrade is an exchange trade whose notional value crossed the whale threshold.
// Symbol and TradeID identify the trade on the exchange.
type WhaleTrade struct {
	gorm.Model
	Symbol   string          `gorm:"uniqueIndex:idx_whale_symbol_trade;not null" json:"symbol"`
	TradeID  int64           `gorm:"uniqueIndex:idx_whale_symbol_trade;not null" json:"trade_id"`
	Price    decimal.Decimal `gorm:"type:decimal(38,18)" json:"price"`
	Quantity decimal.Decimal `gorm:"type:decimal(38,18)" json:"quantity"`
	Notional decimal.Decimal `gorm:"type:decimal(38,18);index" json:"notional"`
	Side     string          `json:"side"`
	TradedAt time.Time       `gorm:"index" json:"traded_at"`
}
