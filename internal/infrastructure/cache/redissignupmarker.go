package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/idlink-io/idlink/internal/shared/constants"
	"github.com/idlink-io/idlink/internal/shared/logger"
)

// RedisSignupMarker flags a session as freshly signed up so the next request
// cycle can trigger onboarding. Marking is best effort: a missing session id
// or a Redis failure is logged and otherwise ignored.
type RedisSignupMarker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisSignupMarker(client *redis.Client, prefix string, ttl time.Duration, log logger.Interface) *RedisSignupMarker {
	return &RedisSignupMarker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: log.With("component", "signup_marker"),
	}
}

func (m *RedisSignupMarker) MarkNewSignup(ctx context.Context) {
	sessionID := constants.SessionIDFromContext(ctx)
	if sessionID == "" {
		return
	}

	if err := m.client.Set(ctx, m.prefix+sessionID, "1", m.ttl).Err(); err != nil {
		m.logger.Warnw("failed to mark new signup", "session_id", sessionID, "error", err)
	}
}

// ConsumeNewSignup reports whether the session was marked and clears the mark.
func (m *RedisSignupMarker) ConsumeNewSignup(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}

	val, err := m.client.GetDel(ctx, m.prefix+sessionID).Result()
	if err != nil {
		return false
	}
	return val == "1"
}
