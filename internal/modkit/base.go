package modkit

import (
	"net/http"

	"storefront/internal/modkit/httpkit"
	str "storefront/internal/platform/strings"
)

// Base implements Module from a Built config; API modules embed it
type Base struct {
	Deps Deps

	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// NewBase builds a Base; register attaches the module's own routes and runs before any WithRegister hook
func NewBase(deps Deps, b Built, register func(httpkit.Router)) Base {
	external := b.Register
	return Base{
		Deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     b.Ports,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		register: func(r httpkit.Router) {
			if register != nil {
				register(r)
			}
			if external != nil {
				external(r)
			}
		},
	}
}

// MountRoutes mounts the module under its prefix, or as a group when the prefix is empty
func (m *Base) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Base) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the normalized route prefix, empty for group modules
func (m *Base) Prefix() string {
	if m.prefix == "" {
		return ""
	}
	return str.MustPrefix(m.prefix)
}

// Middlewares returns the module middlewares
func (m *Base) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module port set
func (m *Base) Ports() any { return m.ports }

// SetPorts replaces the port set; modules call it once their services exist
func (m *Base) SetPorts(p any) { m.ports = p }

// SwaggerOn reports whether docs were requested for this module
func (m *Base) SwaggerOn() bool { return m.swaggerOn }
