package api

import (
	"net/http"
	"strconv"
	"strings"

	"crypto-sentiment-dashboard/internal/store"
	"crypto-sentiment-dashboard/internal/whales"
)

const maxWhaleListLimit = 1000

type ingestResponse struct {
	Success bool `json:"success"`
	*whales.Report
}

// IngestWhalesHandler runs whale-trade ingestion with the caller's exchange credentials.
func (h *Handler) IngestWhalesHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.Whales.Ingest(r.Context(), currentUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ingestResponse{Success: true, Report: report})
}

// WhaleTradesHandler lists stored whale trades, newest first.
func (h *Handler) WhaleTradesHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.WhaleFilter{Symbol: strings.ToUpper(r.URL.Query().Get("symbol"))}

	limit, ok := h.parseLimit(w, r, maxWhaleListLimit)
	if !ok {
		return
	}
	filter.Limit = limit

	trades, err := h.Store.ListWhaleTrades(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trades)
}

// WhaleStatsHandler returns whale activity for the last 24 hours and all time.
func (h *Handler) WhaleStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.WhaleStats(r.Context(), h.now())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// parseLimit reads the optional limit query parameter; zero means "use the default".
func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request, max int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > max {
		h.writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(max))
		return 0, false
	}
	return limit, true
}
