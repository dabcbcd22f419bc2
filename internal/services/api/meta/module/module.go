// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"time"

	"storefront/internal/core/version"
	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/platform/store"

	metahttp "storefront/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{startedAt: time.Now()}
	m.Base = modkit.NewBase(deps, b, func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.startedAt,
			Checks:      checks(deps),
		})
	})
	return m
}

// checks lists pg, ch and redis in that order; absent backends are skipped
func checks(deps modkit.Deps) []metahttp.Check {
	out := []metahttp.Check{{Name: "pg"}, {Name: "ch"}, {Name: "redis"}}
	if p, ok := deps.PG.(store.Pinger); ok {
		out[0].Ping = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		out[1].Ping = p.Ping
	}
	if deps.Redis != nil {
		out[2].Ping = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}
	return out
}
