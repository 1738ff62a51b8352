package models

import "gorm.io/gorm"

// ExchangeCredential holds a user's exchange API key pair.
type ExchangeCredential struct {
	gorm.Model
	UserID    string `gorm:"uniqueIndex;not null" json:"user_id"`
	APIKey    string `gorm:"not null" json:"api_key"`
	SecretKey string `gorm:"not null" json:"-"`
}
