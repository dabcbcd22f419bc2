package repokit

import (
	"context"

	perr "storefront/internal/platform/errors"
)

// BeginHook runs at the start of a transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps a TxRunner so every Tx runs hooks before fn inside the same tx
// Calls outside Tx pass straight through to inner
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	if len(hooks) == 0 {
		return inner
	}
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

// Tx starts a tx on the inner runner then runs all hooks before fn
func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// SetLocal sets a postgres setting for the current transaction only, e.g. lock_timeout
func SetLocal(setting, value string) BeginHook {
	return func(ctx context.Context, q Queryer) error {
		if _, err := q.Exec(ctx, `select set_config($1, $2, true)`, setting, value); err != nil {
			return perr.FromPostgres(err, "set "+setting)
		}
		return nil
	}
}
