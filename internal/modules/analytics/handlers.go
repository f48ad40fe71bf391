package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes the analytics endpoints.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler creates a new analytics handler.
func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "analytics").Logger(),
	}
}

// Routes registers analytics routes on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/cagr", h.HandleCAGR)
}

// HandleCAGR computes growth metrics for one symbol.
// Query: symbol (required), years (optional, default 5, max 20).
func (h *Handler) HandleCAGR(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		h.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	years := 5
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			h.writeError(w, http.StatusBadRequest, "years must be an integer between 1 and 20")
			return
		}
		years = parsed
	}

	report, err := h.svc.Growth(r.Context(), symbol, years)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Growth report failed")
		h.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
