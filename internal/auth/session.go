package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/desidict/backend/internal/models"
)

// CookieName is the browser session cookie holding the signed JWT.
const CookieName = "desidict_session"

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims carries the identity-provider claims across requests inside
// a signed cookie. Subject is the provider's user id.
type SessionClaims struct {
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Admin         bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// Mint signs a session token for the given identity.
func (m *SessionManager) Mint(ident *models.Identity, admin bool) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name:          ident.Name,
		Email:         ident.Email,
		Picture:       ident.Picture,
		EmailVerified: ident.EmailVerified,
		Admin:         admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a session token and returns its claims.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// TTL reports the session lifetime, for cookie expiry.
func (m *SessionManager) TTL() time.Duration { return m.ttl }
