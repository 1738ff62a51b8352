// Package suggestions steps a user through ranked coin suggestions and records decisions.
package suggestions

import (
	"fmt"
	"sort"

	"crypto-sentiment-dashboard/internal/models"
)

// Strategy defines how coin indicators are ordered for presentation.
type Strategy interface {
	// Name returns the unique name of the strategy.
	Name() string

	// Rank returns the indicators in suggestion order. The input is not modified.
	Rank(indicators []models.CoinIndicator) []models.CoinIndicator
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string) (Strategy, error) {
	switch name {
	case "", "score":
		return ScoreStrategy{}, nil
	case "volatility":
		return VolatilityStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown suggestion strategy %q", name)
	}
}

// rankBy sorts a copy of indicators by key descending, ties broken by symbol.
func rankBy(indicators []models.CoinIndicator, key func(models.CoinIndicator) float64) []models.CoinIndicator {
	ranked := make([]models.CoinIndicator, len(indicators))
	copy(ranked, indicators)
	sort.SliceStable(ranked, func(i, j int) bool {
		ki, kj := key(ranked[i]), key(ranked[j])
		if ki != kj {
			return ki > kj
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	return ranked
}

// ScoreStrategy suggests the highest scored coins first.
type ScoreStrategy struct{}

func (ScoreStrategy) Name() string {
	return "score"
}

func (ScoreStrategy) Rank(indicators []models.CoinIndicator) []models.CoinIndicator {
	return rankBy(indicators, func(i models.CoinIndicator) float64 { return i.Score })
}

// VolatilityStrategy suggests the most volatile coins first.
type VolatilityStrategy struct{}

func (VolatilityStrategy) Name() string {
	return "volatility"
}

func (VolatilityStrategy) Rank(indicators []models.CoinIndicator) []models.CoinIndicator {
	return rankBy(indicators, func(i models.CoinIndicator) float64 { return i.Volatility })
}
