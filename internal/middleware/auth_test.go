package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/models"
)

func sessionProbe(captured **Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetSession(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAuthCookie(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret", time.Hour)
	adminEmails := map[string]bool{"admin@example.com": true}

	token, err := sessions.Mint(&models.Identity{
		Subject: "sub-1",
		Name:    "Priya",
		Email:   "priya@example.com",
	}, false)
	require.NoError(t, err)

	var captured *Session
	handler := SessionAuth(sessions, nil, adminEmails)(sessionProbe(&captured))

	t.Run("valid cookie", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, captured)
		assert.Equal(t, "sub-1", captured.Subject)
		assert.Equal(t, "Priya", captured.Name)
		assert.False(t, captured.Admin)
	})

	t.Run("garbage cookie passes through anonymously", func(t *testing.T) {
		captured = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Nil(t, captured)
	})

	t.Run("no credentials", func(t *testing.T) {
		captured = nil
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, captured)
	})
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireUser(next)

	t.Run("browser redirect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/addword", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/user", rec.Header().Get("Location"))
	})

	t.Run("json 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/addword", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("session passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/addword", nil)
		req = req.WithContext(WithSession(req.Context(), &Session{Subject: "sub-1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(next)

	t.Run("non-admin session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/adminDashboard/", nil)
		req = req.WithContext(WithSession(req.Context(), &Session{Subject: "sub-1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/adminDashboard/", nil)
		req = req.WithContext(WithSession(req.Context(), &Session{Subject: "sub-1", Admin: true}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
