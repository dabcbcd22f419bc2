// Package module wires billing webhooks into the API
package module

import (
	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/platform/logger"
	pdom "storefront/internal/services/principal/domain"

	whhttp "storefront/internal/services/api/webhooks/http"
	whrepo "storefront/internal/services/api/webhooks/repo"
	whsvc "storefront/internal/services/api/webhooks/service"
)

// Ports declares the injected principal writer this module needs
type Ports struct {
	Subscriptions pdom.WriterPort
}

// Module implements the webhooks API module
type Module struct {
	modkit.Base
	svc *whsvc.Svc
}

// New constructs the webhooks module; Ports must be supplied with modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("webhooks"),
		modkit.WithPrefix("/webhooks"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Subscriptions == nil {
		panic("webhooks API module requires the Subscriptions port (from services/principal)")
	}

	cfg := FromConfig(deps.Cfg)
	if cfg.StripeSecret == "" {
		logger.Named("webhooks").Warn().Msg("WEBHOOK_STRIPE_SECRET unset; stripe deliveries will be refused")
	}

	m := &Module{svc: whsvc.New(deps.PG, whrepo.NewPG(), whsvc.Options{
		Secret:        cfg.StripeSecret,
		Tolerance:     cfg.Tolerance,
		Subscriptions: injected.Subscriptions,
	})}
	m.Base = modkit.NewBase(deps, b, func(r httpkit.Router) {
		whhttp.Register(r, m.svc)
	})
	m.SetPorts(m.svc)
	return m
}
