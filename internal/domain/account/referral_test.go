package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReferralCode(t *testing.T) {
	t.Run("same seed always yields the same code", func(t *testing.T) {
		first := GenerateReferralCode("john@example.com")
		second := GenerateReferralCode("john@example.com")
		assert.Equal(t, first, second)
	})

	t.Run("seed is case and whitespace insensitive", func(t *testing.T) {
		assert.Equal(t,
			GenerateReferralCode("john@example.com"),
			GenerateReferralCode("  John@Example.COM  "))
	})

	t.Run("different seeds yield different codes", func(t *testing.T) {
		assert.NotEqual(t,
			GenerateReferralCode("john@example.com"),
			GenerateReferralCode("jane@example.com"))
	})

	t.Run("code is fixed length and upper case", func(t *testing.T) {
		code := GenerateReferralCode("johndoe")
		assert.Len(t, code, 8)
		assert.Equal(t, strings.ToUpper(code), code)
	})
}
