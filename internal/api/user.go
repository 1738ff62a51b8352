package api

import (
	"net/http"
	"strings"

	"crypto-sentiment-dashboard/internal/suggestions"
	"github.com/shopspring/decimal"
)

type credentialsRequest struct {
	APIKey    string `json:"api_key" validate:"required,max=128"`
	SecretKey string `json:"secret_key" validate:"required,max=128"`
}

type decisionRequest struct {
	Decision string          `json:"decision" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note" validate:"max=500"`
}

// SaveCredentialsHandler stores the caller's exchange key pair.
func (h *Handler) SaveCredentialsHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Store.SaveCredentials(r.Context(), currentUser(r), req.APIKey, req.SecretKey); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssetsHandler lists the caller's stored balances.
func (h *Handler) AssetsHandler(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Portfolio.List(r.Context(), currentUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

// SyncAssetsHandler refreshes the caller's balances from the exchange.
func (h *Handler) SyncAssetsHandler(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Portfolio.Sync(r.Context(), currentUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

// NextSuggestionHandler returns the next coin the caller has not decided on.
func (h *Handler) NextSuggestionHandler(w http.ResponseWriter, r *http.Request) {
	next, err := h.Suggestions.Next(r.Context(), currentUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, next)
}

// DecisionHandler records the caller's decision on a suggested coin.
func (h *Handler) DecisionHandler(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Amount.IsNegative() {
		h.writeError(w, http.StatusUnprocessableEntity, "amount must not be negative")
		return
	}

	prediction, err := h.Suggestions.Decide(r.Context(), currentUser(r), suggestions.Decision{
		Symbol:   strings.ToUpper(r.PathValue("symbol")),
		Decision: req.Decision,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, prediction)
}

// PredictionsHandler lists the caller's decisions.
func (h *Handler) PredictionsHandler(w http.ResponseWriter, r *http.Request) {
	predictions, err := h.Suggestions.History(r.Context(), currentUser(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, predictions)
}
