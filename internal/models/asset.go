package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Asset is a user's balance of a single coin on the exchange.
type Asset struct {
	gorm.Model
	UserID string          `gorm:"uniqueIndex:idx_asset_user_asset;not null" json:"user_id"`
	Asset  string          `gorm:"uniqueIndex:idx_asset_user_asset;not null" json:"asset"`
	Free   decimal.Decimal `gorm:"type:decimal(38,18)" json:"free"`
	Locked decimal.Decimal `gorm:"type:decimal(38,18)" json:"locked"`
}

// Total returns the free and locked balance combined.
func (a Asset) Total() decimal.Decimal {
	return a.Free.Add(a.Locked)
}
