package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/desidict/backend/internal/models"
)

var ErrProviderNotConfigured = errors.New("google oauth is not configured")

// GoogleVerifier exchanges an authorization code for identity claims. The
// login flow itself (consent screen, redirect) belongs to Google; we only
// build the authorization URL and consume the callback.
type GoogleVerifier struct {
	oauth *oauth2.Config
}

func NewGoogleVerifier(clientID, clientSecret, redirectURL string) *GoogleVerifier {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GoogleVerifier{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the Google authorization URL carrying the CSRF state.
func (g *GoogleVerifier) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and fetches the user's
// identity claims through the oauth2/v2 Userinfo endpoint.
func (g *GoogleVerifier) Exchange(ctx context.Context, code string) (*models.Identity, error) {
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := goauth.NewService(ctx, option.WithTokenSource(g.oauth.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	ident := &models.Identity{
		Subject: info.Id,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}
	if info.VerifiedEmail != nil {
		ident.EmailVerified = *info.VerifiedEmail
	}
	if ident.Subject == "" {
		return nil, errors.New("userinfo missing subject id")
	}
	return ident, nil
}
