package recommendation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler exposes the recommendation endpoints.
type Handler struct {
	svc  *Service
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new recommendation handler.
func NewHandler(svc *Service, repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		svc:  svc,
		repo: repo,
		log:  log.With().Str("handler", "recommendations").Logger(),
	}
}

// Routes registers recommendation routes on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.HandleRecommend)
	r.Get("/history", h.HandleHistory)
}

// HandleRecommend generates a recommendation for the posted profile.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req Request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		// Malformed JSON and wrong-typed fields (e.g. a fractional
		// horizon) are client errors, not server failures.
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		if IsValidationError(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Recommendation failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// HandleHistory returns recent stored recommendations, newest first.
// The optional limit query parameter caps the page size (default 20, max 100).
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, http.StatusServiceUnavailable, "history storage is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := h.repo.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list recommendation history")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := h.repo.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count recommendation history")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"total":   total,
		"entries": entries,
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
