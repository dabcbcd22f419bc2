// Package repo provides postgres access for webhook delivery bookkeeping
package repo

import (
	"context"

	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/services/api/webhooks/domain"
)

type (
	// PG implements domain.EventRepo using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[domain.EventRepo] { return PG{} }

// Bind binds a Postgres queryer to the EventRepo implementation
func (PG) Bind(q repokit.Queryer) domain.EventRepo { return &queries{q: q} }

func (r *queries) Record(ctx context.Context, id, kind string) (bool, error) {
	const sql = `
insert into webhook_events (id, kind, received_at)
values ($1, $2, now())
on conflict (id) do nothing
`
	tag, err := r.q.Exec(ctx, sql, id, kind)
	if err != nil {
		return false, perr.FromPostgres(err, "record webhook event")
	}
	return tag.RowsAffected() == 1, nil
}
