// Package repo provides postgres access for principals
package repo

import (
	"context"
	"errors"

	"storefront/internal/core/access"
	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/store"
	"storefront/internal/services/principal/domain"

	"github.com/google/uuid"
)

type (
	// PG implements domain.Repo using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) Get(ctx context.Context, subjectID string) (*access.Principal, error) {
	// subjects minted outside our uuid space can never have a row
	if _, err := uuid.Parse(subjectID); err != nil {
		return nil, nil
	}
	const sql = `
select subject_id::text, coalesce(tier, ''), coalesce(status, ''), role
from subscriptions
where subject_id = $1
`
	p, err := store.One(ctx, r.q, scanPrincipal, sql, subjectID)
	if errors.Is(err, perr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "load subscription")
	}
	return p, nil
}

func scanPrincipal(row store.Row) (*access.Principal, error) {
	var sub, tier, status, role string
	if err := row.Scan(&sub, &tier, &status, &role); err != nil {
		return nil, err
	}
	p := &access.Principal{SubjectID: sub, Role: access.RoleUser}
	if r, ok := access.ParseRole(role); ok {
		p.Role = r
	}
	// unknown values stay empty so the record reads as unresolved
	if t, ok := access.ParseTier(tier); ok {
		p.Tier = t
	}
	if s, ok := access.ParseStatus(status); ok {
		p.Status = s
	}
	return p, nil
}

func (r *queries) SubjectByCustomer(ctx context.Context, customerID string) (string, bool, error) {
	sub, err := store.Scalar[string](ctx, r.q,
		`select subject_id::text from subscriptions where customer_id = $1`, customerID)
	if errors.Is(err, perr.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, perr.FromPostgres(err, "load subscription by customer")
	}
	return sub, true, nil
}

func (r *queries) Upsert(ctx context.Context, s domain.Subscription) error {
	if _, err := uuid.Parse(s.SubjectID); err != nil {
		return perr.WithField(perr.InvalidArgf("subject id must be a uuid"), "subject_id")
	}
	const sql = `
insert into subscriptions (subject_id, tier, status, customer_id, role, updated_at)
values ($1, $2, $3, nullif($4, ''), coalesce(nullif($5, ''), 'user'), now())
on conflict (subject_id) do update
set tier = excluded.tier,
    status = excluded.status,
    customer_id = coalesce(excluded.customer_id, subscriptions.customer_id),
    role = coalesce(nullif($5, ''), subscriptions.role),
    updated_at = now()
`
	if err := store.ExecOne(ctx, r.q, sql, s.SubjectID, string(s.Tier), string(s.Status), s.CustomerID, string(s.Role)); err != nil {
		return perr.FromPostgres(err, "save subscription")
	}
	return nil
}
