package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlink-io/idlink/internal/shared/config"
)

func TestNormalizeTwitterAvatar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"normal variant upgraded",
			"https://pbs.twimg.com/profile_images/1/photo_normal.jpg",
			"https://pbs.twimg.com/profile_images/1/photo_400x400.jpg",
		},
		{
			"already full size untouched",
			"https://pbs.twimg.com/profile_images/1/photo_400x400.jpg",
			"https://pbs.twimg.com/profile_images/1/photo_400x400.jpg",
		},
		{
			"empty url untouched",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTwitterAvatar(tt.input))
		})
	}
}

func TestGeneratePKCEParams(t *testing.T) {
	verifier, challenge, err := generatePKCEParams()
	require.NoError(t, err)
	require.NotEmpty(t, verifier)
	require.NotEmpty(t, challenge)

	// challenge must be the S256 transform of the verifier
	hash := sha256.Sum256([]byte(verifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(hash[:]), challenge)

	// each handshake gets fresh material
	verifier2, _, err := generatePKCEParams()
	require.NoError(t, err)
	assert.NotEqual(t, verifier, verifier2)
}

func TestTwitterOAuthClient_GetAuthURL(t *testing.T) {
	client := NewTwitterOAuthClient(config.ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/oauth/twitter/callback",
	})

	authURL, verifier, err := client.GetAuthURL("state-123")
	require.NoError(t, err)
	assert.NotEmpty(t, verifier)
	assert.Contains(t, authURL, "state=state-123")
	assert.Contains(t, authURL, "code_challenge=")
	assert.Contains(t, authURL, "code_challenge_method=S256")
}

func TestGitHubOAuthClient_GetAuthURL(t *testing.T) {
	client := NewGitHubOAuthClient(config.ProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/oauth/github/callback",
	})

	authURL, verifier, err := client.GetAuthURL("state-123")
	require.NoError(t, err)
	assert.Empty(t, verifier)
	assert.Contains(t, authURL, "state=state-123")
}
