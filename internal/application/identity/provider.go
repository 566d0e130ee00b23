package identity

import "context"

// TokenMaterial is the provider token pair confirmed by the handshake.
// AccessTokenSecret carries the secondary credential: the token secret for
// OAuth1-style providers, the refresh token for OAuth2 providers that issue
// one, empty otherwise.
type TokenMaterial struct {
	AccessToken       string
	AccessTokenSecret string
}

// Profile is the decoded third-party profile attached to an assertion.
type Profile struct {
	ExternalID    string
	DisplayHandle string
	DisplayName   string
	Email         string
	AvatarURL     string
	RawAttributes map[string]any
}

// OAuthClient is the per-provider handshake boundary. The token exchange and
// redirect handling behind it are not part of the reconciliation contract.
type OAuthClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (TokenMaterial, error)
	GetProfile(ctx context.Context, token TokenMaterial) (*Profile, error)
}

// ClientRegistry resolves a provider name to its handshake client.
type ClientRegistry map[string]OAuthClient

// Lookup returns the client for a provider, or false for unsupported providers.
func (r ClientRegistry) Lookup(provider string) (OAuthClient, bool) {
	client, ok := r[provider]
	return client, ok
}
