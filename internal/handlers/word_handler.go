package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/desidict/backend/internal/middleware"
	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

// WordHandler serves the public listing/search pages and the submission flow.
type WordHandler struct {
	words    services.WordService
	users    services.UserService
	pageSize int
}

func NewWordHandler(words services.WordService, users services.UserService, pageSize int) *WordHandler {
	return &WordHandler{words: words, users: users, pageSize: pageSize}
}

// ListWords handles GET /
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	rememberReturnTo(w, r)

	page := parsePage(r)
	items, totalPages, err := h.words.ListApproved(r.Context(), page, h.pageSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list words")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.WordPage{
		Words:      models.AnnotateVotes(items, h.viewer(r)),
		Page:       page,
		TotalPages: totalPages,
	}))
}

// SearchWords handles GET /search/
func (h *WordHandler) SearchWords(w http.ResponseWriter, r *http.Request) {
	rememberReturnTo(w, r)

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Search query is required"))
		return
	}

	page := parsePage(r)
	items, totalPages, err := h.words.Search(r.Context(), query, page, h.pageSize)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Search failed")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.WordPage{
		Words:      models.AnnotateVotes(items, h.viewer(r)),
		Page:       page,
		TotalPages: totalPages,
	}))
}

// AddWordForm handles GET /addword. The session requirement is enforced by
// middleware; this endpoint just confirms the caller may submit.
func (h *WordHandler) AddWordForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]interface{}{
		"submit_to":   "/postword",
		"user_handle": sess.Name,
	}))
}

// SubmitWord handles POST /postword
func (h *WordHandler) SubmitWord(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	req, err := parseSubmitRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		if wantsJSON(r) {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errs))
			return
		}
		http.Redirect(w, r, "/addword", http.StatusSeeOther)
		return
	}

	author := models.Author{Subject: sess.Subject, Name: sess.Name, Email: sess.Email}
	word, err := h.words.Submit(r.Context(), author, req)
	if err != nil {
		log.Error().Err(err).Str("word", req.Word).Msg("Failed to store submission")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Word store unavailable"))
		return
	}

	log.Info().Str("word_id", word.ID).Str("word", word.Word).Msg("Word submitted for review")

	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, models.NewSuccessResponse(word))
		return
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

func parseSubmitRequest(r *http.Request) (*models.SubmitWordRequest, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req models.SubmitWordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &models.SubmitWordRequest{
		Word:         strings.TrimSpace(r.PostFormValue("word")),
		Definition:   strings.TrimSpace(r.PostFormValue("def")),
		Language:     strings.TrimSpace(r.PostFormValue("language")),
		PartOfSpeech: strings.TrimSpace(r.PostFormValue("part_of_speech")),
		Gender:       strings.TrimSpace(r.PostFormValue("gender")),
		Conjugates:   strings.TrimSpace(r.PostFormValue("conjugates")),
		UsageExample: strings.TrimSpace(r.PostFormValue("usage_example")),
		Synonyms:     strings.TrimSpace(r.PostFormValue("synonyms")),
		Antonyms:     strings.TrimSpace(r.PostFormValue("antonyms")),
		Region:       strings.TrimSpace(r.PostFormValue("region")),
		ZipCode:      strings.TrimSpace(r.PostFormValue("uploaded_zip_code")),
		Anonymous:    r.PostFormValue("anonCheck") == "anonTrue",
	}, nil
}

// viewer resolves the logged-in user's stored record for vote annotation.
// Anonymous viewers and lookup misses yield nil.
func (h *WordHandler) viewer(r *http.Request) *models.User {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		return nil
	}
	user, err := h.users.GetBySubject(r.Context(), sess.Subject)
	if err != nil {
		if err != services.ErrUserNotFound {
			log.Warn().Err(err).Str("subject", sess.Subject).Msg("Viewer lookup failed")
		}
		return nil
	}
	return user
}
