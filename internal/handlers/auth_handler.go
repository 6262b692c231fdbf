package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/middleware"
	"github.com/desidict/backend/internal/models"
	"github.com/desidict/backend/internal/services"
)

const oauthStateCookie = "oauth_state"

// AuthHandler owns the login flows: Google OAuth for users and the bcrypt
// password fallback for the administrator.
type AuthHandler struct {
	sessions          *auth.SessionManager
	google            *auth.GoogleVerifier
	users             services.UserService
	adminEmails       map[string]bool
	adminPasswordHash string
}

func NewAuthHandler(sessions *auth.SessionManager, google *auth.GoogleVerifier, users services.UserService, adminEmails map[string]bool, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{
		sessions:          sessions,
		google:            google,
		users:             users,
		adminEmails:       adminEmails,
		adminPasswordHash: adminPasswordHash,
	}
}

// LoginPage handles GET /user
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	body := map[string]interface{}{
		"login_url":     "/user/login",
		"authenticated": sess != nil,
	}
	if sess != nil {
		body["name"] = sess.Name
		body["email"] = sess.Email
		body["admin"] = sess.Admin
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(body))
}

// Login handles GET /user/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Google login is not configured"))
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/user",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET|POST /user/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Google login is not configured"))
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.FormValue("state") {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid login state"))
		return
	}
	clearCookie(w, oauthStateCookie, "/user")

	code := r.FormValue("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing authorization code"))
		return
	}

	ident, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("OAuth code exchange failed")
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Login failed"))
		return
	}

	if _, err := h.users.GetOrCreate(r.Context(), ident); err != nil {
		log.Error().Err(err).Str("subject", ident.Subject).Msg("Failed to upsert user")
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("User store unavailable"))
		return
	}

	admin := h.adminEmails[strings.ToLower(ident.Email)]
	token, err := h.sessions.Mint(ident, admin)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mint session")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	h.setSessionCookie(w, token)
	log.Info().Str("subject", ident.Subject).Bool("admin", admin).Msg("User logged in")
	http.Redirect(w, r, "/user/protected_area", http.StatusSeeOther)
}

// Logout handles GET /user/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, auth.CookieName, "/")
	http.Redirect(w, r, "/user", http.StatusSeeOther)
}

// ProtectedArea handles GET /user/protected_area, landing freshly logged-in
// users back where they came from.
func (h *AuthHandler) ProtectedArea(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// AdminLogin handles POST /user/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.adminPasswordHash == "" {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Admin login is not configured"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.adminPasswordHash), []byte(r.FormValue("password"))); err != nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Invalid password"))
		return
	}

	token, err := h.sessions.Mint(&models.Identity{
		Subject: "admin",
		Name:    "Administrator",
	}, true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to mint admin session")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Login failed"))
		return
	}

	h.setSessionCookie(w, token)
	log.Info().Msg("Admin logged in with password")

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"admin": true}))
		return
	}
	http.Redirect(w, r, "/adminDashboard/", http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessions.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
	})
}
