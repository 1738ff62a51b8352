package models

import (
	"time"

	"gorm.io/gorm"
)

// TradeView is a single scraped comment under a trading video.
type TradeView struct {
	gorm.Model
	VideoID     string    `gorm:"index;not null" json:"video_id"`
	VideoTitle  string    `json:"video_title"`
	Author      string    `json:"author"`
	Comment     string    `gorm:"not null" json:"comment"`
	PublishedAt time.Time `json:"published_at"`
}
