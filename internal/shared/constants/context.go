package constants

import "context"

type contextKey string

const sessionIDContextKey contextKey = ContextKeySessionID

// WithSessionID attaches the session identifier to the request context so
// components below the HTTP layer can key per-session state.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// SessionIDFromContext returns the session identifier, or "" when absent.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDContextKey).(string); ok {
		return v
	}
	return ""
}
