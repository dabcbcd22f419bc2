// Package service resolves principals through layered caches in front of postgres
package service

import (
	"context"

	"storefront/internal/core/access"
	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	"storefront/internal/services/principal/domain"
)

// Svc implements domain.Ports
// Caches are consulted in order; a hit in a later cache refills the earlier ones
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	caches []domain.Cache
}

var _ domain.Ports = (*Svc)(nil)

// New constructs the principal service; nil caches are skipped
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], caches ...domain.Cache) *Svc {
	if db == nil {
		panic("principal.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("principal.Service requires a non nil Repo binder")
	}
	s := &Svc{db: db, binder: binder}
	for _, c := range caches {
		if c != nil {
			s.caches = append(s.caches, c)
		}
	}
	return s
}

// Lookup returns the principal for subjectID, nil when the subject has no usable subscription
func (s *Svc) Lookup(ctx context.Context, subjectID string) (*access.Principal, error) {
	for i, c := range s.caches {
		p, ok := c.Get(ctx, subjectID)
		if !ok {
			continue
		}
		for _, prev := range s.caches[:i] {
			prev.Set(ctx, subjectID, p)
		}
		metrics.PrincipalLookupsTotal.WithLabelValues("cache").Inc()
		return resolved(p), nil
	}

	p, err := s.binder.Bind(s.db).Get(ctx, subjectID)
	if err != nil {
		metrics.PrincipalLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PrincipalLookupsTotal.WithLabelValues("store").Inc()
	for _, c := range s.caches {
		c.Set(ctx, subjectID, p)
	}
	return resolved(p), nil
}

// resolved hides partial records; callers treat them as anonymous
func resolved(p *access.Principal) *access.Principal {
	if !p.Resolved() {
		return nil
	}
	return p
}

// SubjectByCustomer maps a billing customer to its subject
func (s *Svc) SubjectByCustomer(ctx context.Context, customerID string) (string, bool, error) {
	return s.binder.Bind(s.db).SubjectByCustomer(ctx, customerID)
}

// applyAttempts bounds retries of a write that lost a lock or serialization race
const applyAttempts = 3

// Apply persists a billing update and drops every cached copy
func (s *Svc) Apply(ctx context.Context, sub domain.Subscription) error {
	var err error
	for attempt := 1; attempt <= applyAttempts; attempt++ {
		err = repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
			return s.binder.Bind(q).Upsert(ctx, sub)
		})
		if err == nil || !perr.Retryable(err) || ctx.Err() != nil {
			break
		}
		logger.C(ctx).Warn().Err(err).
			Str("subject_id", sub.SubjectID).
			Int("attempt", attempt).
			Msg("subscription write contended, retrying")
	}
	if err != nil {
		return err
	}
	s.Invalidate(ctx, sub.SubjectID)
	logger.C(ctx).Info().
		Str("subject_id", sub.SubjectID).
		Str("tier", string(sub.Tier)).
		Str("status", string(sub.Status)).
		Msg("subscription updated")
	return nil
}

// Invalidate drops subjectID from all caches
func (s *Svc) Invalidate(ctx context.Context, subjectID string) {
	for _, c := range s.caches {
		c.Del(ctx, subjectID)
	}
}
