// Package module wires the entitlement endpoints into the API
package module

import (
	"storefront/internal/core/access"
	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	accesshttp "storefront/internal/services/api/access/http"
	accesssvc "storefront/internal/services/api/access/service"
)

// Module implements modkit.Module
type Module struct {
	modkit.Base
	svc *accesssvc.Svc
}

// New constructs the access module; routes mount at the API root
func New(deps modkit.Deps, rules *access.RuleSet, opts ...modkit.Option) modkit.Module {
	if deps.Auth == nil {
		panic("access module requires an auth port")
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("access")}, opts...)...)

	m := &Module{svc: accesssvc.New(rules)}
	m.Base = modkit.NewBase(deps, b, func(r httpkit.Router) {
		accesshttp.Register(r, deps.Auth, m.svc)
	})
	m.SetPorts(m.svc)
	return m
}
