// Package modkit provides module wiring and core deps
package modkit

import (
	"storefront/internal/modkit/httpkit"
	"storefront/internal/modkit/repokit"
	"storefront/internal/platform/config"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// optional backends, nil when disabled
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Redis *redis.Client

	// Auth resolves bearer tokens and principals for protected routes
	Auth *httpkit.Port
}

// FromStore copies the enabled backends of st onto d
func (d Deps) FromStore(st *store.Store) Deps {
	if st == nil {
		return d
	}
	d.PG = st.PG
	d.CH = st.CH
	d.Redis = st.Redis
	return d
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
