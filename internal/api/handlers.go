// Package api exposes the dashboard backend over HTTP.
package api

import (
	"net/http"
	"time"

	"crypto-sentiment-dashboard/internal/auth"
	"crypto-sentiment-dashboard/internal/market"
	"crypto-sentiment-dashboard/internal/portfolio"
	"crypto-sentiment-dashboard/internal/sentiment"
	"crypto-sentiment-dashboard/internal/store"
	"crypto-sentiment-dashboard/internal/suggestions"
	"crypto-sentiment-dashboard/internal/whales"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Dependencies are the services the handlers delegate to.
type Dependencies struct {
	Store       *store.Store
	Verifier    *auth.Verifier
	Whales      *whales.Ingestor
	Sentiment   *sentiment.Classifier
	Market      *market.Service
	Portfolio   *portfolio.Service
	Suggestions *suggestions.Service
	// Stream serves the websocket endpoint; optional.
	Stream http.Handler
}

// Handler holds dependencies for the API endpoints.
type Handler struct {
	log      *zap.Logger
	validate *validator.Validate
	Dependencies
	now func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(log *zap.Logger, deps Dependencies) *Handler {
	return &Handler{
		log:          log.Named("api"),
		validate:     validator.New(),
		Dependencies: deps,
		now:          time.Now,
	}
}

// Routes returns the API wrapped in its middleware chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.HealthHandler)

	// Whale trades
	mux.HandleFunc("POST /functions/v1/whale-trades", h.requireAuth(h.IngestWhalesHandler))
	mux.HandleFunc("GET /api/whale-trades", h.WhaleTradesHandler)
	mux.HandleFunc("GET /api/whale-trades/stats", h.WhaleStatsHandler)

	// Sentiment and market data
	mux.HandleFunc("GET /api/sentiment", h.SentimentHandler)
	mux.HandleFunc("POST /api/trade-views", h.AddTradeViewsHandler)
	mux.HandleFunc("GET /api/volatile-pairs", h.VolatilePairsHandler)
	mux.HandleFunc("GET /api/indicators", h.IndicatorsHandler)
	mux.HandleFunc("POST /api/indicators", h.UpsertIndicatorsHandler)

	// Per-user endpoints
	mux.HandleFunc("PUT /api/credentials", h.requireAuth(h.SaveCredentialsHandler))
	mux.HandleFunc("GET /api/assets", h.requireAuth(h.AssetsHandler))
	mux.HandleFunc("POST /api/assets/sync", h.requireAuth(h.SyncAssetsHandler))
	mux.HandleFunc("GET /api/suggestions/next", h.requireAuth(h.NextSuggestionHandler))
	mux.HandleFunc("POST /api/suggestions/{symbol}/decision", h.requireAuth(h.DecisionHandler))
	mux.HandleFunc("GET /api/predictions", h.requireAuth(h.PredictionsHandler))

	if h.Stream != nil {
		mux.Handle("GET /ws/whales", h.Stream)
	}

	return requestID(h.accessLog(h.recoverPanic(cors(mux))))
}

// HealthHandler reports liveness and database reachability.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	database := "up"

	if sqlDB, err := h.Store.DB().DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
		status, code, database = "degraded", http.StatusServiceUnavailable, "down"
	}

	h.writeJSON(w, code, map[string]string{
		"status":   status,
		"database": database,
		"time":     h.now().UTC().Format(time.RFC3339),
	})
}
