// Package module wires the principal store and exposes its ports
package module

import (
	"fmt"

	"storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/modkit/repokit"
	"storefront/internal/services/principal/cache"
	dom "storefront/internal/services/principal/domain"
	"storefront/internal/services/principal/repo"
	"storefront/internal/services/principal/service"
)

// Module defines the principal store module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the principal module; the in-process cache is always on,
// the redis cache joins behind it when deps carry a client
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.CacheSize != 0 {
		opts.CacheSize = overrides.CacheSize
	}
	if overrides.CacheTTL != 0 {
		opts.CacheTTL = overrides.CacheTTL
	}
	if overrides.RedisTTL != 0 {
		opts.RedisTTL = overrides.RedisTTL
	}
	if overrides.LockTimeout != 0 {
		opts.LockTimeout = overrides.LockTimeout
	}

	caches := []dom.Cache{cache.NewLRU(opts.CacheSize, opts.CacheTTL)}
	if deps.Redis != nil {
		caches = append(caches, cache.NewRedis(deps.Redis, opts.RedisTTL))
	}
	if deps.PG == nil {
		panic("principal module requires postgres")
	}
	db := repokit.WithBeginHooks(deps.PG,
		repokit.SetLocal("lock_timeout", fmt.Sprintf("%dms", opts.LockTimeout.Milliseconds())))
	svc := service.New(db, repo.NewPG(), caches...)

	m := &Module{deps: deps}
	m.ports = Ports{
		Lookup: svc,
		Writer: svc,
	}
	return m
}

// Ports returns the module ports (Lookup, Writer)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "principal" }

// Prefix returns the module prefix (none, the store has no routes)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
