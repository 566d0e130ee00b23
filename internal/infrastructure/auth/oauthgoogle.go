package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/idlink-io/idlink/internal/application/identity"
	"github.com/idlink-io/idlink/internal/shared/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleOAuthClient struct {
	config *oauth2.Config
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func NewGoogleOAuthClient(cfg config.ProviderConfig) *GoogleOAuthClient {
	return &GoogleOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (c *GoogleOAuthClient) GetAuthURL(state string) (string, string, error) {
	codeVerifier, codeChallenge, err := generatePKCEParams()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate PKCE parameters: %w", err)
	}

	authURL := c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, codeVerifier, nil
}

func (c *GoogleOAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (identity.TokenMaterial, error) {
	token, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return identity.TokenMaterial{}, fmt.Errorf("failed to exchange code: %w", err)
	}
	return identity.TokenMaterial{
		AccessToken:       token.AccessToken,
		AccessTokenSecret: token.RefreshToken,
	}, nil
}

func (c *GoogleOAuthClient) GetProfile(ctx context.Context, token identity.TokenMaterial) (*identity.Profile, error) {
	body, err := fetchUserInfo(ctx, googleUserInfoURL, token.AccessToken)
	if err != nil {
		return nil, err
	}

	var gInfo googleUserInfo
	if err := json.Unmarshal(body, &gInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = nil
	}

	// Google has no handle concept; the email local part is the closest
	// stable equivalent for a desired username.
	handle := gInfo.Email
	if at := strings.Index(handle, "@"); at > 0 {
		handle = handle[:at]
	}

	return &identity.Profile{
		ExternalID:    gInfo.ID,
		DisplayHandle: handle,
		DisplayName:   gInfo.Name,
		Email:         gInfo.Email,
		AvatarURL:     gInfo.Picture,
		RawAttributes: raw,
	}, nil
}
