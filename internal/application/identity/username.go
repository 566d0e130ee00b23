package identity

import (
	"context"
	"fmt"

	"github.com/idlink-io/idlink/internal/shared/constants"
)

// UsernameExistsFunc reports whether an account already owns the exact username.
type UsernameExistsFunc func(ctx context.Context, username string) (bool, error)

// UsernameDisambiguator resolves the desired username for a new signup against
// the directory. The fallback policy is fixed: when the desired username is
// taken, the provider's suffix tag is appended and the suffixed form is
// returned without a further existence check. The policy resolves exactly two
// candidates (desired, desired+suffix); a collision at the suffixed form
// surfaces later as a directory uniqueness violation.
type UsernameDisambiguator struct{}

func NewUsernameDisambiguator() *UsernameDisambiguator {
	return &UsernameDisambiguator{}
}

// Resolve returns the username a new account should be created with.
func (d *UsernameDisambiguator) Resolve(ctx context.Context, desired, provider string, exists UsernameExistsFunc) (string, error) {
	if desired == "" {
		return "", fmt.Errorf("profile handle is required")
	}

	taken, err := exists(ctx, desired)
	if err != nil {
		return "", fmt.Errorf("failed to check username availability: %w", err)
	}
	if !taken {
		return desired, nil
	}

	suffix, ok := constants.UsernameSuffixes[provider]
	if !ok {
		return "", fmt.Errorf("no username suffix registered for provider %s", provider)
	}
	return desired + suffix, nil
}
