package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crypto-sentiment-dashboard/internal/models"
	"crypto-sentiment-dashboard/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrNoSuggestions is returned once the user decided on every indicator.
	ErrNoSuggestions = errors.New("no suggestions left")
	// ErrUnknownSymbol is returned when deciding on a symbol without an indicator.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrInvalidDecision is returned for a decision other than buy, sell or skip.
	ErrInvalidDecision = errors.New("invalid decision")
)

// Store is the persistence the suggestion service needs.
type Store interface {
	ListIndicators(ctx context.Context) ([]models.CoinIndicator, error)
	GetIndicator(ctx context.Context, symbol string) (*models.CoinIndicator, error)
	DecidedSymbols(ctx context.Context, userID string) (map[string]bool, error)
	SaveDecision(ctx context.Context, prediction *models.PredictionTrade) error
	ListDecisions(ctx context.Context, userID string) ([]models.PredictionTrade, error)
}

// Suggestion is the next coin to show a user.
type Suggestion struct {
	Indicator models.CoinIndicator `json:"indicator"`
	Remaining int                  `json:"remaining"`
	Strategy  string               `json:"strategy"`
}

// Decision is a user's answer to a suggestion.
type Decision struct {
	Symbol   string
	Decision string
	Amount   decimal.Decimal
	Note     string
}

// Service hands out suggestions in strategy order.
type Service struct {
	logger   *zap.Logger
	store    Store
	strategy Strategy
}

// NewService creates a suggestion Service.
func NewService(logger *zap.Logger, store Store, strategy Strategy) *Service {
	return &Service{logger: logger.Named("suggestions"), store: store, strategy: strategy}
}

// Next returns the highest ranked indicator userID has not decided on yet.
func (s *Service) Next(ctx context.Context, userID string) (*Suggestion, error) {
	indicators, err := s.store.ListIndicators(ctx)
	if err != nil {
		return nil, err
	}
	decided, err := s.store.DecidedSymbols(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pending []models.CoinIndicator
	for _, indicator := range s.strategy.Rank(indicators) {
		if !decided[indicator.Symbol] {
			pending = append(pending, indicator)
		}
	}
	if len(pending) == 0 {
		return nil, ErrNoSuggestions
	}

	return &Suggestion{
		Indicator: pending[0],
		Remaining: len(pending) - 1,
		Strategy:  s.strategy.Name(),
	}, nil
}

// Decide records the decision of userID on a suggested symbol.
func (s *Service) Decide(ctx context.Context, userID string, d Decision) (*models.PredictionTrade, error) {
	decision := strings.ToLower(d.Decision)
	switch decision {
	case models.DecisionBuy, models.DecisionSell, models.DecisionSkip:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, d.Decision)
	}

	if _, err := s.store.GetIndicator(ctx, d.Symbol); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, d.Symbol)
		}
		return nil, err
	}

	prediction := &models.PredictionTrade{
		UserID:   userID,
		Symbol:   d.Symbol,
		Decision: decision,
		Amount:   d.Amount,
		Note:     d.Note,
	}
	if err := s.store.SaveDecision(ctx, prediction); err != nil {
		return nil, err
	}

	s.logger.Info("Recorded suggestion decision",
		zap.String("user_id", userID),
		zap.String("symbol", d.Symbol),
		zap.String("decision", decision))
	return prediction, nil
}

// History returns the decisions of userID.
func (s *Service) History(ctx context.Context, userID string) ([]models.PredictionTrade, error) {
	return s.store.ListDecisions(ctx, userID)
}
