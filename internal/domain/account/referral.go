package account

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

const referralCodeLength = 8

// GenerateReferralCode derives a stable referral code from a profile seed
// (the asserted email when present, else the provider handle). The same seed
// always produces the same upper-case code; collisions between different seeds
// are left to the directory's uniqueness constraint on referral codes.
func GenerateReferralCode(seed string) string {
	normalized := strings.ToLower(strings.TrimSpace(seed))
	sum := sha256.Sum256([]byte(normalized))
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
	return strings.ToUpper(code[:referralCodeLength])
}
