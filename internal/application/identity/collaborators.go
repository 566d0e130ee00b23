package identity

import "context"

// Analytics records product events. RecordEvent is fire-and-forget: failures
// are swallowed by the implementation and never reach the reconciler.
type Analytics interface {
	RecordEvent(category, action, label string)
}

// Telemetry captures faults that fall outside the modeled rejection outcomes.
type Telemetry interface {
	CaptureException(err error)
}

// SessionMarker flags the surrounding session when a reconciliation attempt
// provisions a new account. Marking failures must not affect the outcome.
type SessionMarker interface {
	MarkNewSignup(ctx context.Context)
}

// NopSessionMarker satisfies SessionMarker for callers without a session surface.
type NopSessionMarker struct{}

func (NopSessionMarker) MarkNewSignup(context.Context) {}
