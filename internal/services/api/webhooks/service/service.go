// Package service applies billing provider events to subscriptions
package service

import (
	"context"
	"time"

	"storefront/internal/adapters/billing/stripe"
	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	"storefront/internal/services/api/webhooks/domain"
	pdom "storefront/internal/services/principal/domain"
)

// Options configures the service
type Options struct {
	Secret    string
	Tolerance time.Duration
	// Subscriptions receives the resolved billing state
	Subscriptions pdom.WriterPort
}

// Svc implements domain.ServicePort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.EventRepo]
	opts   Options
}

// New creates the webhook service
func New(db repokit.TxRunner, binder repokit.Binder[domain.EventRepo], opts Options) *Svc {
	if db == nil {
		panic("webhooks.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("webhooks.Service requires a non nil EventRepo binder")
	}
	if opts.Subscriptions == nil {
		panic("webhooks.Service requires a subscription writer")
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = stripe.DefaultTolerance
	}
	return &Svc{db: db, binder: binder, opts: opts}
}

// HandleStripe verifies, dedupes and applies one delivery
// The event id commits only after the subscription writer succeeds, so a failed
// update leaves the id free for the provider's retry. The writer commits on its
// own transaction; its upsert is idempotent, so a retry after a late failure
// rewrites the same state
func (s *Svc) HandleStripe(ctx context.Context, payload []byte, signature string) (domain.Result, error) {
	if s.opts.Secret == "" {
		return domain.Result{}, perr.Unavailablef("stripe webhooks are not configured")
	}
	ev, err := stripe.ConstructEvent(payload, signature, s.opts.Secret, s.opts.Tolerance)
	if err != nil {
		if stripe.IsSignatureError(err) {
			logger.C(ctx).Warn().Err(err).Msg("stripe signature rejected")
			return domain.Result{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "invalid signature"), stripe.SignatureHeader)
		}
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeJSON, "invalid event payload")
	}
	res := domain.Result{EventID: ev.ID}
	log := logger.C(ctx).With().Str("event_id", ev.ID).Str("event_type", string(ev.Type)).Logger()

	if !ev.IsSubscriptionEvent() {
		res.Outcome, res.Reason = domain.OutcomeIgnored, "unhandled event type"
		return res, nil
	}
	sub, err := ev.Subscription()
	if err != nil {
		return domain.Result{}, perr.Wrap(err, perr.ErrorCodeJSON, "invalid subscription object")
	}

	update, reason, err := s.resolve(ctx, ev, sub)
	if err != nil {
		return domain.Result{}, err
	}
	if reason != "" {
		log.Info().Str("reason", reason).Msg("stripe event ignored")
		res.Outcome, res.Reason = domain.OutcomeIgnored, reason
		return res, nil
	}
	res.SubjectID = update.SubjectID

	duplicate := false
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		first, err := s.binder.Bind(q).Record(ctx, ev.ID, string(ev.Type))
		if err != nil {
			return err
		}
		if !first {
			duplicate = true
			return nil
		}
		return s.opts.Subscriptions.Apply(ctx, update)
	})
	if err != nil {
		return domain.Result{}, err
	}
	if duplicate {
		log.Debug().Msg("stripe event already processed")
		res.Outcome = domain.OutcomeDuplicate
		return res, nil
	}

	log.Info().
		Str("subject_id", update.SubjectID).
		Str("tier", string(update.Tier)).
		Str("status", string(update.Status)).
		Msg("subscription updated from stripe")
	res.Outcome = domain.OutcomeApplied
	return res, nil
}

// resolve maps the subscription onto a subject; a non empty reason means skip
func (s *Svc) resolve(ctx context.Context, ev stripe.Event, sub stripe.Subscription) (pdom.Subscription, string, error) {
	subject := sub.SubjectID()
	customer := sub.CustomerID()
	if subject == "" && customer != "" {
		id, ok, err := s.opts.Subscriptions.SubjectByCustomer(ctx, customer)
		if err != nil {
			return pdom.Subscription{}, "", err
		}
		if ok {
			subject = id
		}
	}
	if subject == "" {
		return pdom.Subscription{}, "no subject for subscription", nil
	}

	tier, ok := sub.Tier()
	if !ok {
		return pdom.Subscription{}, "unknown tier", nil
	}
	return pdom.Subscription{
		SubjectID:  subject,
		Tier:       tier,
		Status:     sub.AccessStatus(ev.Deleted()),
		CustomerID: customer,
	}, "", nil
}
