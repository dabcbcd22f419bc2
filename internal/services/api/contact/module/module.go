// Package module wires the contact form into the API
package module

import (
	"net/http"

	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	contacthttp "storefront/internal/services/api/contact/http"
	contactrepo "storefront/internal/services/api/contact/repo"
	contactsvc "storefront/internal/services/api/contact/service"
)

// Options configures the lead admin routes
type Options struct {
	// AdminGuard wraps state-changing lead admin routes, normally the enhanced forgery guard
	AdminGuard func(http.Handler) http.Handler
}

// Module implements modkit.Module
type Module struct {
	modkit.Base
	svc *contactsvc.Svc
}

// New constructs the contact module
// Lead admin routes mount only when deps carry an auth port
func New(deps modkit.Deps, o Options, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("contact"),
		modkit.WithPrefix("/contact"),
	}, opts...)...)

	m := &Module{svc: contactsvc.New(deps.PG, contactrepo.NewPG())}
	m.Base = modkit.NewBase(deps, b, func(r httpkit.Router) {
		contacthttp.Register(r, deps.Auth, o.AdminGuard, m.svc)
	})
	m.SetPorts(m.svc)
	return m
}
