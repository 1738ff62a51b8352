package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DecisionBuy  = "buy"
	DecisionSell = "sell"
	DecisionSkip = "skip"
)

// PredictionTrade records what a user decided when shown a coin suggestion.
// There is at most one row per user and symbol.
type PredictionTrade struct {
	gorm.Model
	UserID   string          `gorm:"uniqueIndex:idx_prediction_user_symbol;not null" json:"user_id"`
	Symbol   string          `gorm:"uniqueIndex:idx_prediction_user_symbol;not null" json:"symbol"`
	Decision string          `gorm:"not null" json:"decision"`
	Amount   decimal.Decimal `gorm:"type:decimal(38,18)" json:"amount"`
	Note     string          `json:"note,omitempty"`
}
