package api

import (
	"net/http"
	"strings"
	"time"

	"crypto-sentiment-dashboard/internal/models"
)

const maxVolatileLimit = 100

type tradeViewRequest struct {
	VideoID     string    `json:"video_id" validate:"required,max=64"`
	VideoTitle  string    `json:"video_title" validate:"max=300"`
	Author      string    `json:"author" validate:"max=120"`
	Comment     string    `json:"comment" validate:"required,max=10000"`
	PublishedAt time.Time `json:"published_at"`
}

type tradeViewsRequest struct {
	Views []tradeViewRequest `json:"views" validate:"required,min=1,max=1000,dive"`
}

type indicatorRequest struct {
	Symbol     string  `json:"symbol" validate:"required,max=20"`
	Score      float64 `json:"score"`
	Volatility float64 `json:"volatility" validate:"gte=0"`
	Signal     string  `json:"signal" validate:"omitempty,oneof=buy sell hold"`
	Source     string  `json:"source" validate:"max=64"`
}

type indicatorsRequest struct {
	Indicators []indicatorRequest `json:"indicators" validate:"required,min=1,max=1000,dive"`
}

// SentimentHandler summarizes the comments of a video, or of all videos without video_id.
func (h *Handler) SentimentHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.URL.Query().Get("video_id")
	views, err := h.Store.ListTradeViews(r.Context(), videoID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.Sentiment.Summarize(videoID, views))
}

// AddTradeViewsHandler stores a batch of scraped comments.
func (h *Handler) AddTradeViewsHandler(w http.ResponseWriter, r *http.Request) {
	var req tradeViewsRequest
	if !h.decode(w, r, &req) {
		return
	}

	views := make([]models.TradeView, 0, len(req.Views))
	for _, v := range req.Views {
		views = append(views, models.TradeView{
			VideoID:     v.VideoID,
			VideoTitle:  v.VideoTitle,
			Author:      v.Author,
			Comment:     v.Comment,
			PublishedAt: v.PublishedAt.UTC(),
		})
	}
	if err := h.Store.AddTradeViews(r.Context(), views); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int{"stored": len(views)})
}

// VolatilePairsHandler lists the most volatile pairs of the last 24 hours.
func (h *Handler) VolatilePairsHandler(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r, maxVolatileLimit)
	if !ok {
		return
	}
	pairs, err := h.Market.VolatilePairs(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pairs)
}

// IndicatorsHandler lists coin indicators.
func (h *Handler) IndicatorsHandler(w http.ResponseWriter, r *http.Request) {
	indicators, err := h.Store.ListIndicators(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, indicators)
}

// UpsertIndicatorsHandler creates or updates coin indicators by symbol.
func (h *Handler) UpsertIndicatorsHandler(w http.ResponseWriter, r *http.Request) {
	var req indicatorsRequest
	if !h.decode(w, r, &req) {
		return
	}

	indicators := make([]models.CoinIndicator, 0, len(req.Indicators))
	for _, i := range req.Indicators {
		indicators = append(indicators, models.CoinIndicator{
			Symbol:     strings.ToUpper(i.Symbol),
			Score:      i.Score,
			Volatility: i.Volatility,
			Signal:     i.Signal,
			Source:     i.Source,
		})
	}
	if err := h.Store.UpsertIndicators(r.Context(), indicators); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"stored": len(indicators)})
}
