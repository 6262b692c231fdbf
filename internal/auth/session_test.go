package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desidict/backend/internal/models"
)

func testIdentity() *models.Identity {
	return &models.Identity{
		Subject:       "google-sub-123",
		Name:          "Priya Sharma",
		Email:         "priya@example.com",
		Picture:       "https://example.com/p.jpg",
		EmailVerified: true,
	}
}

func TestSessionMintParse(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	token, err := m.Mint(testIdentity(), true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-123", claims.Subject)
	assert.Equal(t, "Priya Sharma", claims.Name)
	assert.Equal(t, "priya@example.com", claims.Email)
	assert.True(t, claims.EmailVerified)
	assert.True(t, claims.Admin)
}

func TestSessionParseWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", time.Hour).Mint(testIdentity(), false)
	require.NoError(t, err)

	_, err = NewSessionManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionParseExpired(t *testing.T) {
	m := NewSessionManager("test-secret", -time.Minute)

	token, err := m.Mint(testIdentity(), false)
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionParseGarbage(t *testing.T) {
	m := NewSessionManager("test-secret", time.Hour)

	_, err := m.Parse("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
