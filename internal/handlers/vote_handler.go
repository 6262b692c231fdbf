package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/desidict/backend/internal/middleware"
	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

// VoteHandler serves the four vote endpoints. Sessions are guaranteed by
// RequireUser upstream.
type VoteHandler struct {
	votes services.VoteService
}

func NewVoteHandler(votes services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Upvote handles POST /upvote/{wordID}
func (h *VoteHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "upvote", h.votes.Upvote)
}

// Downvote handles POST /downvote/{wordID}
func (h *VoteHandler) Downvote(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "downvote", h.votes.Downvote)
}

// UndoUpvote handles POST /undo_upvote/{wordID}
func (h *VoteHandler) UndoUpvote(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "undo_upvote", h.votes.UndoUpvote)
}

// UndoDownvote handles POST /undo_downvote/{wordID}
func (h *VoteHandler) UndoDownvote(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "undo_downvote", h.votes.UndoDownvote)
}

func (h *VoteHandler) apply(w http.ResponseWriter, r *http.Request, action string, op func(context.Context, string, string) error) {
	sess := middleware.GetSession(r.Context())
	wordID := chi.URLParam(r, "wordID")

	switch err := op(r.Context(), wordID, sess.Subject); err {
	case nil:
	case services.ErrWordNotFound:
		if wantsJSON(r) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Word not found"))
			return
		}
		http.NotFound(w, r)
		return
	case services.ErrUserNotFound:
		// Session exists but the record does not (bearer-only client that
		// never hit the callback). Treated like an expired login.
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unknown user"))
			return
		}
		http.Redirect(w, r, "/user", http.StatusSeeOther)
		return
	default:
		log.Error().Err(err).Str("action", action).Str("word_id", wordID).Msg("Vote update failed")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{
			"word_id": wordID,
			"action":  action,
		}))
		return
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}
