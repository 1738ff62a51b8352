package models

import "gorm.io/gorm"

// CoinIndicator is a per-coin signal that feeds the suggestion list.
type CoinIndicator struct {
	gorm.Model
	Symbol     string  `gorm:"uniqueIndex;not null" json:"symbol"`
	Score      float64 `json:"score"`
	Volatility float64 `json:"volatility"`
	Signal     string  `json:"signal"` // "buy", "sell" or "hold"
	Source     string  `json:"source"`
}
