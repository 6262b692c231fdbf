package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/desidict/backend/internal/auth"
	"github.com/desidict/backend/internal/models"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the authenticated caller attached to the request context.
type Session struct {
	Subject       string
	Name          string
	Email         string
	Picture       string
	EmailVerified bool
	Admin         bool
}

// SessionAuth resolves the caller's identity, preferring the session cookie
// and falling back to a Firebase ID token in the Authorization header when a
// Firebase client is configured. Requests without credentials pass through
// anonymously; RequireUser/RequireAdmin enforce access.
func SessionAuth(sessions *auth.SessionManager, fb *fbauth.Client, adminEmails map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
				if claims, err := sessions.Parse(cookie.Value); err == nil {
					next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), &Session{
						Subject:       claims.Subject,
						Name:          claims.Name,
						Email:         claims.Email,
						Picture:       claims.Picture,
						EmailVerified: claims.EmailVerified,
						Admin:         claims.Admin,
					})))
					return
				}
			}

			if fb != nil {
				if idToken := bearerToken(r); idToken != "" {
					if tok, err := fb.VerifyIDToken(r.Context(), idToken); err == nil {
						sess := sessionFromFirebase(tok)
						sess.Admin = adminEmails[strings.ToLower(sess.Email)]
						next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects unauthenticated browser requests to the login page;
// JSON clients get a 401 envelope.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) == nil {
			if wantsJSON(r) {
				writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Authentication required"))
				return
			}
			http.Redirect(w, r, "/user", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin gates the moderation surface.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil || !sess.Admin {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithSession attaches a session to the context. Exported for tests.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// GetSession extracts the session from context; nil when anonymous.
func GetSession(ctx context.Context) *Session {
	sess, ok := ctx.Value(sessionKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func sessionFromFirebase(tok *fbauth.Token) *Session {
	sess := &Session{Subject: tok.UID}
	if v, ok := tok.Claims["name"].(string); ok {
		sess.Name = v
	}
	if v, ok := tok.Claims["email"].(string); ok {
		sess.Email = v
	}
	if v, ok := tok.Claims["picture"].(string); ok {
		sess.Picture = v
	}
	if v, ok := tok.Claims["email_verified"].(bool); ok {
		sess.EmailVerified = v
	}
	return sess
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
