package module

import (
	"time"

	"storefront/internal/platform/config"
	"storefront/internal/services/principal/cache"
)

// Options controls the principal caches
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	// RedisTTL bounds entries in the shared cache; zero reuses CacheTTL
	RedisTTL time.Duration
	// LockTimeout bounds how long a subscription write waits on row locks
	LockTimeout time.Duration
}

// FromConfig reads with PRINCIPAL_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("PRINCIPAL_")
	ttl := c.MayDuration("CACHE_TTL", cache.DefaultTTL)
	return Options{
		CacheSize: c.MayInt("CACHE_SIZE", cache.DefaultSize),
		CacheTTL:  ttl,
		RedisTTL:  c.MayDuration("REDIS_TTL", ttl),

		LockTimeout: c.MayDuration("LOCK_TIMEOUT", 2*time.Second),
	}
}
