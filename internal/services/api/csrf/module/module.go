// Package module wires the CSRF token endpoint into the API
package module

import (
	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/platform/net/csrf"
	csrfhttp "storefront/internal/services/api/csrf/http"
)

// Module implements modkit.Module
type Module struct {
	modkit.Base
}

// New constructs the csrf module; m is the process wide manager shared with the forgery guard
func New(deps modkit.Deps, m *csrf.Manager, opts ...modkit.Option) modkit.Module {
	if m == nil {
		panic("csrf module requires a manager")
	}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("csrf"),
		modkit.WithPrefix("/csrf-token"),
	}, opts...)...)

	mod := &Module{}
	mod.Base = modkit.NewBase(deps, b, func(r httpkit.Router) {
		csrfhttp.Register(r, m)
	})
	return mod
}
