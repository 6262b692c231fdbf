package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

// AdminHandler serves the moderation dashboard. RequireAdmin gates both
// routes upstream.
type AdminHandler struct {
	words services.WordService
}

func NewAdminHandler(words services.WordService) *AdminHandler {
	return &AdminHandler{words: words}
}

// Dashboard handles GET /adminDashboard/
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	pending, err := h.words.ListPending(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending words")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"pending": pending,
	}))
}

// Moderate handles POST /adminDashboard/{action}/{wordID}/
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	wordID := chi.URLParam(r, "wordID")

	var status models.WordStatus
	switch action := chi.URLParam(r, "action"); action {
	case "approve":
		status = models.WordStatusApproved
	case "decline":
		status = models.WordStatusDeclined
	default:
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Unknown moderation action"))
		return
	}

	// Missing word ids fall through as a no-op inside SetStatus.
	if err := h.words.SetStatus(r.Context(), wordID, status); err != nil {
		log.Error().Err(err).Str("word_id", wordID).Msg("Moderation update failed")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}

	log.Info().Str("word_id", wordID).Str("status", string(status)).Msg("Word moderated")

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{
			"word_id": wordID,
			"status":  string(status),
		}))
		return
	}
	http.Redirect(w, r, "/adminDashboard/", http.StatusSeeOther)
}
