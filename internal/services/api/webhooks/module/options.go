package module

import (
	"time"

	"storefront/internal/adapters/billing/stripe"
	"storefront/internal/platform/config"
)

// Options configures webhook verification
type Options struct {
	StripeSecret string
	Tolerance    time.Duration
}

// FromConfig reads with WEBHOOK_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WEBHOOK_")
	return Options{
		StripeSecret: c.MayString("STRIPE_SECRET", ""),
		Tolerance:    c.MayDuration("TOLERANCE", stripe.DefaultTolerance),
	}
}
