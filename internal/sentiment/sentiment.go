// Package sentiment classifies video comments into buy, sell or other.
package sentiment

import (
	"strings"
	"unicode"

	"crypto-sentiment-dashboard/internal/models"
)

// Label is the sentiment of a single comment.
type Label string

const (
	Buy   Label = "buy"
	Sell  Label = "sell"
	Other Label = "other"
)

var (
	defaultBuyKeywords  = []string{"buy", "buying", "bought", "long", "bullish", "moon", "pump", "accumulate", "hodl"}
	defaultSellKeywords = []string{"sell", "selling", "sold", "short", "bearish", "dump", "exit", "crash"}
)

// Classifier matches comment words against keyword lists.
type Classifier struct {
	buy  map[string]struct{}
	sell map[string]struct{}
}

// NewClassifier creates a Classifier. Empty lists fall back to the built-in keywords.
func NewClassifier(buyKeywords, sellKeywords []string) *Classifier {
	if len(buyKeywords) == 0 {
		buyKeywords = defaultBuyKeywords
	}
	if len(sellKeywords) == 0 {
		sellKeywords = defaultSellKeywords
	}
	return &Classifier{buy: keywordSet(buyKeywords), sell: keywordSet(sellKeywords)}
}

func keywordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Classify labels a comment by whichever keyword list it hits more often.
// A tie, including no hits at all, is Other.
func (c *Classifier) Classify(comment string) Label {
	words := strings.FieldsFunc(strings.ToLower(comment), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var buyHits, sellHits int
	for _, w := range words {
		if _, ok := c.buy[w]; ok {
			buyHits++
		}
		if _, ok := c.sell[w]; ok {
			sellHits++
		}
	}

	switch {
	case buyHits > sellHits:
		return Buy
	case sellHits > buyHits:
		return Sell
	default:
		return Other
	}
}

// Counts is the number of comments per label.
type Counts struct {
	Buy   int `json:"buy"`
	Sell  int `json:"sell"`
	Other int `json:"other"`
	Total int `json:"total"`
}

// Count classifies every comment and tallies the labels.
func (c *Classifier) Count(comments []string) Counts {
	var counts Counts
	for _, comment := range comments {
		switch c.Classify(comment) {
		case Buy:
			counts.Buy++
		case Sell:
			counts.Sell++
		default:
			counts.Other++
		}
		counts.Total++
	}
	return counts
}

// Summary is the sentiment of a set of trade views.
type Summary struct {
	VideoID  string `json:"video_id,omitempty"`
	Counts   Counts `json:"counts"`
	Dominant Label  `json:"dominant"`
}

// Summarize counts the comments of views and picks the dominant label.
// Buy and sell only dominate when they strictly outnumber each other.
func (c *Classifier) Summarize(videoID string, views []models.TradeView) Summary {
	comments := make([]string, 0, len(views))
	for _, v := range views {
		comments = append(comments, v.Comment)
	}
	counts := c.Count(comments)

	dominant := Other
	switch {
	case counts.Buy > counts.Sell:
		dominant = Buy
	case counts.Sell > counts.Buy:
		dominant = Sell
	}
	return Summary{VideoID: videoID, Counts: counts, Dominant: dominant}
}
