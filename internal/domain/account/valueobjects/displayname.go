package valueobjects

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName represents the full name asserted by a third-party profile.
// Third-party names are unreliable; the only structure imposed here is the
// first/last split used to derive default account fields.
type DisplayName struct {
	value string
}

// NewDisplayName creates a DisplayName from an asserted profile name.
func NewDisplayName(value string) (*DisplayName, error) {
	normalized := strings.Join(strings.Fields(value), " ")
	if normalized == "" {
		return nil, fmt.Errorf("display name cannot be empty")
	}
	return &DisplayName{value: normalized}, nil
}

// String returns the normalized name.
func (n *DisplayName) String() string {
	return n.value
}

// Split divides the name into the default first/last account fields: the last
// token becomes the last name, the remaining tokens joined become the first
// name. A single-token name yields an empty first name.
func (n *DisplayName) Split() (firstName, lastName string) {
	parts := strings.Fields(n.value)
	lastName = parts[len(parts)-1]
	firstName = strings.Join(parts[:len(parts)-1], " ")
	return firstName, lastName
}

var titleCaser = cases.Title(language.English)

// TitleCase capitalizes each word of a name for display.
func TitleCase(s string) string {
	parts := strings.Fields(s)
	for i, part := range parts {
		parts[i] = titleCaser.String(strings.ToLower(part))
	}
	return strings.Join(parts, " ")
}
