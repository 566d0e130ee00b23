package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"

	// Context keys
	ContextKeyAccountID = "account_id"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"

	// Table names
	TableAccounts           = "accounts"
	TableExternalIdentities = "external_identities"

	// Supported OAuth providers
	ProviderTwitter = "twitter"
	ProviderGitHub  = "github"
	ProviderGoogle  = "google"
)

// UsernameSuffixes maps a provider to the one-shot suffix appended when the
// desired username is already taken. A collision at the suffixed form is not
// resolved further; it surfaces as a directory uniqueness violation.
var UsernameSuffixes = map[string]string{
	ProviderTwitter: "-t",
	ProviderGitHub:  "-g",
	ProviderGoogle:  "-gl",
}
