// Package service contains the contact form workflow
package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	pnet "storefront/internal/platform/net"
	"storefront/internal/services/api/contact/domain"

	"github.com/google/uuid"
)

// Svc implements domain.ServicePort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	now    func() time.Time
}

// New creates the contact service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo]) *Svc {
	if db == nil {
		panic("contact.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("contact.Service requires a non nil Repo binder")
	}
	return &Svc{db: db, binder: binder, now: time.Now}
}

// Submit stores a lead; a signed in caller is linked by subject id
func (s *Svc) Submit(ctx context.Context, in domain.ContactInput) (domain.ContactCreated, error) {
	lead := domain.Lead{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Company:   strings.TrimSpace(in.Company),
		Message:   strings.TrimSpace(in.Message),
		SubjectID: pnet.SubjectID(ctx),
		CreatedAt: s.now().UTC(),
	}
	if err := s.binder.Bind(s.db).Insert(ctx, lead); err != nil {
		return domain.ContactCreated{}, err
	}
	logger.C(ctx).Info().Str("lead_id", lead.ID.String()).Msg("contact lead stored")
	return domain.ContactCreated{ID: lead.ID}, nil
}

// List returns recent leads for staff
func (s *Svc) List(ctx context.Context, limit int) ([]domain.LeadOutput, error) {
	switch {
	case limit <= 0:
		limit = domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		limit = domain.MaxListLimit
	}
	leads, err := s.binder.Bind(s.db).List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LeadOutput, 0, len(leads))
	for _, l := range leads {
		out = append(out, domain.LeadOutput{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Company:   l.Company,
			Message:   l.Message,
			SubjectID: l.SubjectID,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

// Delete removes a lead, e.g. on an erasure request
func (s *Svc) Delete(ctx context.Context, id uuid.UUID) (domain.LeadDeleted, error) {
	ok, err := s.binder.Bind(s.db).Delete(ctx, id)
	if err != nil {
		return domain.LeadDeleted{}, err
	}
	if !ok {
		return domain.LeadDeleted{}, perr.NotFoundf("lead not found")
	}
	logger.C(ctx).Info().
		Str("lead_id", id.String()).
		Str("by", pnet.SubjectID(ctx)).
		Msg("contact lead deleted")
	return domain.LeadDeleted{ID: id}, nil
}
