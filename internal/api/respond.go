package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"crypto-sentiment-dashboard/internal/auth"
	"crypto-sentiment-dashboard/internal/store"
	"crypto-sentiment-dashboard/internal/suggestions"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to status codes; anything unknown is a 500
// whose details only go to the log.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, store.ErrNoCredentials):
		h.writeError(w, http.StatusPreconditionFailed, "exchange credentials are not configured")
	case errors.Is(err, suggestions.ErrNoSuggestions):
		h.writeError(w, http.StatusNotFound, "no suggestions left")
	case errors.Is(err, suggestions.ErrUnknownSymbol), errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, suggestions.ErrInvalidDecision):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", w.Header().Get(requestIDHeader)),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v and validates it. It writes the error response itself
// and reports whether the handler may continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			h.writeError(w, http.StatusBadRequest, "request body is empty")
		} else {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", err))
		}
		return false
	}

	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			h.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("field %s failed %s validation", fe.Namespace(), fe.Tag()))
		} else {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return false
	}
	return true
}
