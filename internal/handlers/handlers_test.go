package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/middleware"
	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

type testEnv struct {
	router   *chi.Mux
	sessions *auth.SessionManager
	words    *services.MemoryWordService
	users    *services.MemoryUserService
	votes    *services.MemoryVoteService
}

// newTestEnv wires the full route tree against in-memory stores, mirroring
// cmd/server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := services.NewMemoryUserService()
	words := services.NewMemoryWordService(users)
	votes := services.NewMemoryVoteService(words, users)

	sessions := auth.NewSessionManager("test-secret", time.Hour)
	adminEmails := map[string]bool{"admin@example.com": true}

	wordHandler := NewWordHandler(words, users, 8)
	voteHandler := NewVoteHandler(votes)
	authHandler := NewAuthHandler(sessions, nil, users, adminEmails, "")
	adminHandler := NewAdminHandler(words)

	r := chi.NewRouter()
	r.Use(middleware.SessionAuth(sessions, nil, adminEmails))

	r.Get("/", wordHandler.ListWords)
	r.Get("/search/", wordHandler.SearchWords)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/addword", wordHandler.AddWordForm)
		r.Post("/postword", wordHandler.SubmitWord)
		r.Post("/upvote/{wordID}", voteHandler.Upvote)
		r.Post("/downvote/{wordID}", voteHandler.Downvote)
		r.Post("/undo_upvote/{wordID}", voteHandler.UndoUpvote)
		r.Post("/undo_downvote/{wordID}", voteHandler.UndoDownvote)
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/", authHandler.LoginPage)
		r.Get("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.With(middleware.RequireUser).Get("/protected_area", authHandler.ProtectedArea)
		r.Post("/admin/login", authHandler.AdminLogin)
	})

	r.Route("/adminDashboard", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(middleware.RequireAdmin)
		r.Get("/", adminHandler.Dashboard)
		r.Post("/{action}/{wordID}/", adminHandler.Moderate)
	})

	return &testEnv{router: r, sessions: sessions, words: words, users: users, votes: votes}
}

// login creates the stored user and returns a valid session cookie.
func (e *testEnv) login(t *testing.T, subject, name, email string, admin bool) *http.Cookie {
	t.Helper()

	ident := &models.Identity{Subject: subject, Name: name, Email: email, EmailVerified: true}
	_, err := e.users.GetOrCreate(context.Background(), ident)
	require.NoError(t, err)

	token, err := e.sessions.Mint(ident, admin)
	require.NoError(t, err)

	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedApprovedWord(t *testing.T, subject, text string) *models.Word {
	t.Helper()

	word, err := e.words.Submit(context.Background(), models.Author{Subject: subject, Name: "Seeder"}, &models.SubmitWordRequest{
		Word:         text,
		Definition:   "definition of " + text,
		Language:     "Hindi",
		PartOfSpeech: "noun",
	})
	require.NoError(t, err)
	require.NoError(t, e.words.SetStatus(context.Background(), word.ID, models.WordStatusApproved))
	return word
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, out))
}
