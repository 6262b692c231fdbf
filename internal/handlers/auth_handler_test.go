package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/services"
)

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/user/", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var data map[string]interface{}
		decodeData(t, rec, &data)
		assert.Equal(t, false, data["authenticated"])
		assert.Equal(t, "/user/login", data["login_url"])
	})

	t.Run("logged in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/", nil)
		req.AddCookie(env.login(t, "user", "Priya", "priya@example.com", false))
		rec := env.do(t, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var data map[string]interface{}
		decodeData(t, rec, &data)
		assert.Equal(t, true, data["authenticated"])
		assert.Equal(t, "Priya", data["name"])
	})
}

func TestLoginWithoutProvider(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/user/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "user", "Priya", "priya@example.com", false)

	req := httptest.NewRequest(http.MethodGet, "/user/logout", nil)
	req.AddCookie(cookie)
	rec := env.do(t, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/user", rec.Header().Get("Location"))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			cleared = true
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
	assert.True(t, cleared)
}

func TestProtectedArea(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, "user", "Priya", "priya@example.com", false)

	t.Run("requires session", func(t *testing.T) {
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/user/protected_area", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/user", rec.Header().Get("Location"))
	})

	t.Run("lands on remembered page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/protected_area", nil)
		req.AddCookie(cookie)
		req.AddCookie(&http.Cookie{Name: returnToCookie, Value: "/search/?search=jugaad"})
		rec := env.do(t, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/search/?search=jugaad", rec.Header().Get("Location"))
	})

	t.Run("ignores non-local return targets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user/protected_area", nil)
		req.AddCookie(cookie)
		req.AddCookie(&http.Cookie{Name: returnToCookie, Value: "//evil.example.com"})
		rec := env.do(t, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestAdminPasswordLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	sessions := auth.NewSessionManager("test-secret", time.Hour)
	handler := NewAuthHandler(sessions, nil, services.NewMemoryUserService(), nil, string(hash))

	post := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/user/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		handler.AdminLogin(rec, req)
		return rec
	}

	t.Run("wrong password", func(t *testing.T) {
		rec := post("letmein")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct password mints admin session", func(t *testing.T) {
		rec := post("hunter2")
		require.Equal(t, http.StatusOK, rec.Code)

		var token string
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.CookieName {
				token = c.Value
			}
		}
		require.NotEmpty(t, token)

		claims, err := sessions.Parse(token)
		require.NoError(t, err)
		assert.True(t, claims.Admin)
		assert.Equal(t, "admin", claims.Subject)
	})
}
