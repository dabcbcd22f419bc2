package csrf

import (
	"time"

	"storefront/internal/platform/config"
)

// FromConfig reads the policy from a prefixed view (COOKIE_NAME, COOKIE_PATH, HEADER_NAME, FIELD_NAME, LONG_FIELD_NAME, TTL)
func FromConfig(cfg config.Conf, dev bool) Config {
	d := DefaultConfig()
	return Config{
		CookieName:    cfg.MayString("COOKIE_NAME", d.CookieName),
		CookiePath:    cfg.MayString("COOKIE_PATH", d.CookiePath),
		HeaderName:    cfg.MayString("HEADER_NAME", d.HeaderName),
		FieldName:     cfg.MayString("FIELD_NAME", d.FieldName),
		LongFieldName: cfg.MayString("LONG_FIELD_NAME", d.LongFieldName),
		TTL:           cfg.MayDuration("TTL", 24*time.Hour),
		Dev:           dev,
	}
}
