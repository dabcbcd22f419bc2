// Package repo provides postgres access for contact leads
package repo

import (
	"context"
	"time"

	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/store"
	str "storefront/internal/platform/strings"
	"storefront/internal/services/api/contact/domain"

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

func (r *queries) Insert(ctx context.Context, l domain.Lead) error {
	const sql = `
insert into leads (id, name, email, company, message, subject_id, created_at)
values ($1, $2, $3, $4, $5, $6::uuid, $7)
`
	err := store.ExecOne(ctx, r.q, sql,
		l.ID, l.Name, l.Email, str.SQLNull(l.Company), l.Message, str.SQLNull(l.SubjectID), l.CreatedAt)
	return perr.FromPostgres(err, "save lead")
}

func (r *queries) List(ctx context.Context, limit int) ([]domain.Lead, error) {
	const sql = `
select id::text, name, email, coalesce(company, ''), message, coalesce(subject_id::text, ''), created_at
from leads
order by created_at desc
limit $1
`
	leads, err := store.Many(ctx, r.q, scanLead, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "list leads")
	}
	return leads, nil
}

func scanLead(row store.Row) (domain.Lead, error) {
	var (
		l  domain.Lead
		id string
		at time.Time
	)
	if err := row.Scan(&id, &l.Name, &l.Email, &l.Company, &l.Message, &l.SubjectID, &at); err != nil {
		return domain.Lead{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.Lead{}, err
	}
	l.ID, l.CreatedAt = parsed, at.UTC()
	return l, nil
}

func (r *queries) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `delete from leads where id = $1`, id)
	if err != nil {
		return false, perr.FromPostgres(err, "delete lead")
	}
	return tag.RowsAffected() == 1, nil
}
