package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/idlink-io/idlink/internal/application/identity"
	"github.com/idlink-io/idlink/internal/shared/config"
	"github.com/idlink-io/idlink/internal/shared/constants"
)

const (
	// httpClientTimeout is the timeout for HTTP requests to OAuth providers
	httpClientTimeout = 30 * time.Second

	twitterAuthURL     = "https://twitter.com/i/oauth2/authorize"
	twitterTokenURL    = "https://api.twitter.com/2/oauth2/token"
	twitterUserInfoURL = "https://api.twitter.com/2/users/me?user.fields=profile_image_url,name,username"
)

type TwitterOAuthClient struct {
	config *oauth2.Config
}

type twitterUserInfo struct {
	Data struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Username        string `json:"username"`
		ProfileImageURL string `json:"profile_image_url"`
		Email           string `json:"email"`
	} `json:"data"`
}

func NewTwitterOAuthClient(cfg config.ProviderConfig) *TwitterOAuthClient {
	return &TwitterOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"users.read", "tweet.read", "offline.access"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  twitterAuthURL,
				TokenURL: twitterTokenURL,
			},
		},
	}
}

func (c *TwitterOAuthClient) GetAuthURL(state string) (string, string, error) {
	codeVerifier, codeChallenge, err := generatePKCEParams()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate PKCE parameters: %w", err)
	}

	authURL := c.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return authURL, codeVerifier, nil
}

func (c *TwitterOAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (identity.TokenMaterial, error) {
	token, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return identity.TokenMaterial{}, fmt.Errorf("failed to exchange code: %w", err)
	}
	return identity.TokenMaterial{
		AccessToken:       token.AccessToken,
		AccessTokenSecret: token.RefreshToken,
	}, nil
}

func (c *TwitterOAuthClient) GetProfile(ctx context.Context, token identity.TokenMaterial) (*identity.Profile, error) {
	body, err := fetchUserInfo(ctx, twitterUserInfoURL, token.AccessToken)
	if err != nil {
		return nil, err
	}

	var tInfo twitterUserInfo
	if err := json.Unmarshal(body, &tInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = nil
	}

	return &identity.Profile{
		ExternalID:    tInfo.Data.ID,
		DisplayHandle: tInfo.Data.Username,
		DisplayName:   tInfo.Data.Name,
		Email:         tInfo.Data.Email,
		AvatarURL:     normalizeTwitterAvatar(tInfo.Data.ProfileImageURL),
		RawAttributes: raw,
	}, nil
}

// normalizeTwitterAvatar swaps twitter's thumbnail variant for the 400x400 one.
func normalizeTwitterAvatar(url string) string {
	return strings.Replace(url, "_normal", "_400x400", 1)
}

// fetchUserInfo performs an authenticated GET against a provider userinfo endpoint.
func fetchUserInfo(ctx context.Context, url, accessToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(constants.HeaderAuthorization, "Bearer "+accessToken)

	client := &http.Client{Timeout: httpClientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
