package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/idlink-io/idlink/internal/application/identity"
	"github.com/idlink-io/idlink/internal/shared/config"
	"github.com/idlink-io/idlink/internal/shared/constants"
)

const (
	githubUserInfoURL = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

type GitHubOAuthClient struct {
	config *oauth2.Config
}

type githubUserInfo struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func NewGitHubOAuthClient(cfg config.ProviderConfig) *GitHubOAuthClient {
	return &GitHubOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (c *GitHubOAuthClient) GetAuthURL(state string) (string, string, error) {
	// GitHub does not support PKCE; the one-time state alone guards the callback.
	return c.config.AuthCodeURL(state), "", nil
}

func (c *GitHubOAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (identity.TokenMaterial, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return identity.TokenMaterial{}, fmt.Errorf("failed to exchange code: %w", err)
	}
	return identity.TokenMaterial{AccessToken: token.AccessToken}, nil
}

func (c *GitHubOAuthClient) GetProfile(ctx context.Context, token identity.TokenMaterial) (*identity.Profile, error) {
	body, err := fetchUserInfo(ctx, githubUserInfoURL, token.AccessToken)
	if err != nil {
		return nil, err
	}

	var gInfo githubUserInfo
	if err := json.Unmarshal(body, &gInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = nil
	}

	email := gInfo.Email
	if email == "" {
		// Users with a private email expose it only via the emails endpoint.
		email, _ = c.fetchPrimaryEmail(ctx, token.AccessToken)
	}

	displayName := gInfo.Name
	if displayName == "" {
		displayName = gInfo.Login
	}

	return &identity.Profile{
		ExternalID:    fmt.Sprintf("%d", gInfo.ID),
		DisplayHandle: gInfo.Login,
		DisplayName:   displayName,
		Email:         email,
		AvatarURL:     gInfo.AvatarURL,
		RawAttributes: raw,
	}, nil
}

func (c *GitHubOAuthClient) fetchPrimaryEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubEmailsURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(constants.HeaderAuthorization, "Bearer "+accessToken)

	client := &http.Client{Timeout: httpClientTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get user emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get user emails: status %d", resp.StatusCode)
	}

	var emails []githubEmail
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return "", fmt.Errorf("failed to decode user emails: %w", err)
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}
