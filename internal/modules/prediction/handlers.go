package prediction

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes model administration endpoints.
type Handler struct {
	svc *Service
	log zerolog.Logger
}

// NewHandler creates a new model handler.
func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "models").Logger(),
	}
}

// Routes registers model routes on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/info", h.HandleInfo)
	r.Post("/retrain", h.HandleRetrain)
}

// HandleInfo returns metadata about the live bundle.
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	b := h.svc.Bundle()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":    b.Version,
		"trained_at": b.TrainedAt,
		"samples":    b.Samples,
		"return_band": map[string]float64{
			"min": MinExpectedReturn,
			"max": MaxExpectedReturn,
		},
	})
}

// HandleRetrain retrains the predictors and hot-swaps the live bundle.
func (h *Handler) HandleRetrain(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.svc.Retrain(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Retrain failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":    bundle.Version,
		"trained_at": bundle.TrainedAt,
		"samples":    bundle.Samples,
	})
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
