package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/core/access"
	"storefront/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:principal:"

// Redis shares principals across api replicas
// Backend failures are logged and read as a miss so lookups fall through to postgres
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps client; a non positive ttl uses DefaultTTL
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if client == nil {
		panic("cache: NewRedis requires a client")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func key(subjectID string) string { return keyPrefix + subjectID }

func (r *Redis) Get(ctx context.Context, subjectID string) (*access.Principal, bool) {
	raw, err := r.client.Get(ctx, key(subjectID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("principal cache read failed")
		return nil, false
	}
	var p access.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		// stale or foreign payload; drop it
		_ = r.client.Del(ctx, key(subjectID)).Err()
		return nil, false
	}
	return &p, true
}

func (r *Redis) Set(ctx context.Context, subjectID string, p *access.Principal) {
	if p == nil {
		p = &access.Principal{SubjectID: subjectID}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key(subjectID), raw, r.ttl).Err(); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("principal cache write failed")
	}
}

func (r *Redis) Del(ctx context.Context, subjectID string) {
	if err := r.client.Del(ctx, key(subjectID)).Err(); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("principal cache delete failed")
	}
}
