// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/core/access"
	perrs "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	phttp "storefront/internal/platform/net/http"
)

// IdentityVerifier resolves a bearer token to a subject id
// Any OAuth, JWT or session service satisfies it
type IdentityVerifier interface {
	VerifyBearerToken(ctx context.Context, token string) (subjectID string, err error)
}

// PrincipalLookup resolves a subject's subscription
// A nil principal with a nil error means the subject has none
type PrincipalLookup interface {
	Lookup(ctx context.Context, subjectID string) (*access.Principal, error)
}

// VerifierFunc adapts a plain function to IdentityVerifier
type VerifierFunc func(ctx context.Context, token string) (string, error)

// VerifyBearerToken implements IdentityVerifier
func (f VerifierFunc) VerifyBearerToken(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// LookupFunc adapts a plain function to PrincipalLookup
type LookupFunc func(ctx context.Context, subjectID string) (*access.Principal, error)

// Lookup implements PrincipalLookup
func (f LookupFunc) Lookup(ctx context.Context, subjectID string) (*access.Principal, error) {
	return f(ctx, subjectID)
}

// Denial messages; collaborator detail never reaches the caller
const (
	msgMissingToken = "missing bearer token"
	msgInvalidToken = "invalid bearer token"
	msgUnverifiable = "Subscription could not be verified."
)

// Port asserts identity and entitlement for a request
type Port struct {
	verify        IdentityVerifier
	lookup        PrincipalLookup
	sessionCookie string
	paywall       string
	onDeny        func(r *http.Request, err error)
}

// PortOption configures a Port
type PortOption func(*Port)

// WithSessionCookie accepts the named cookie as the token when Authorization is absent
func WithSessionCookie(name string) PortOption {
	return func(p *Port) { p.sessionCookie = name }
}

// WithPaywall sets the redirect hint on subscription denials
func WithPaywall(path string) PortOption {
	return func(p *Port) {
		if path != "" {
			p.paywall = path
		}
	}
}

// WithDenyHook observes every denial written by the port middleware
func WithDenyHook(fn func(r *http.Request, err error)) PortOption {
	return func(p *Port) { p.onDeny = fn }
}

// NewPort builds a Port; lookup may be nil when only AssertUser is used
func NewPort(v IdentityVerifier, lookup PrincipalLookup, opts ...PortOption) *Port {
	p := &Port{verify: v, lookup: lookup, paywall: access.DefaultPaywall}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Paywall returns the redirect used on subscription denials
func (p *Port) Paywall() string { return p.paywall }

// deny reports err to the hook and writes it
func (p *Port) deny(w http.ResponseWriter, r *http.Request, err error) {
	if p.onDeny != nil {
		p.onDeny(r, err)
	}
	phttp.RespondError(w, r, err)
}

// token extracts the raw credential from Authorization Bearer or the session cookie
func (p *Port) token(r *http.Request) (string, error) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz == "" {
		if p.sessionCookie != "" {
			if c, err := r.Cookie(p.sessionCookie); err == nil && c.Value != "" {
				return c.Value, nil
			}
		}
		return "", perrs.Unauthorizedf(msgMissingToken)
	}
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf(msgMissingToken)
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf(msgMissingToken)
	}
	return raw, nil
}

// AssertUser verifies the bearer credential and returns a principal carrying only the subject
// Tier and status are not resolved here
func (p *Port) AssertUser(r *http.Request) (*access.Principal, error) {
	raw, err := p.token(r)
	if err != nil {
		return nil, err
	}
	if p.verify == nil {
		return nil, perrs.Unauthorizedf(msgInvalidToken)
	}
	sub, err := p.verify.VerifyBearerToken(r.Context(), raw)
	if err != nil {
		logger.C(r.Context()).Debug().Err(err).Msg("bearer token rejected")
		return nil, perrs.Unauthorizedf(msgInvalidToken)
	}
	if strings.TrimSpace(sub) == "" {
		return nil, perrs.Unauthorizedf(msgInvalidToken)
	}
	return &access.Principal{SubjectID: sub}, nil
}

// AssertUserWithTier verifies the credential, then requires an active subscription
// at or above required; access.TierAny only requires an active one
// Stops at the first failing check
func (p *Port) AssertUserWithTier(r *http.Request, required access.Tier) (*access.Principal, error) {
	who, err := p.AssertUser(r)
	if err != nil {
		return nil, err
	}
	pr, err := p.resolve(r.Context(), who.SubjectID)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, perrs.WithRedirect(perrs.Forbiddenf(access.MsgSubscriptionRequired), p.paywall)
	}
	if !pr.Active() {
		return nil, perrs.WithRedirect(perrs.Forbiddenf(access.MsgSubscriptionInactive), p.paywall)
	}
	if required != access.TierAny && !access.HasAccess(pr.Tier, required) {
		return nil, perrs.Forbiddenf("%s", access.InsufficientTierMessage(required))
	}
	return pr, nil
}

// AssertUserWithRole verifies the credential, then requires a stored role at or above required
// Role is independent of tier, so subscription status is not consulted
func (p *Port) AssertUserWithRole(r *http.Request, required access.Role) (*access.Principal, error) {
	who, err := p.AssertUser(r)
	if err != nil {
		return nil, err
	}
	pr, err := p.resolve(r.Context(), who.SubjectID)
	if err != nil {
		return nil, err
	}
	if pr == nil || !access.HasRoleAccess(pr.Role, required) {
		return nil, perrs.Forbiddenf("%s", access.InsufficientRoleMessage(required))
	}
	return pr, nil
}

// Principal resolves the caller without failing: anonymous, rejected or
// unresolvable callers all come back nil
func (p *Port) Principal(r *http.Request) *access.Principal {
	if pr := PrincipalFrom(r.Context()); pr != nil {
		return pr
	}
	who, err := p.AssertUser(r)
	if err != nil {
		return nil
	}
	pr, err := p.resolve(r.Context(), who.SubjectID)
	if err != nil {
		return nil
	}
	return pr
}

// resolve asks the store for the subject's principal
// A lookup failure is logged and becomes a generic forbidden
func (p *Port) resolve(ctx context.Context, sub string) (*access.Principal, error) {
	if p.lookup == nil {
		return nil, nil
	}
	pr, err := p.lookup.Lookup(ctx, sub)
	if err != nil {
		logger.C(ctx).Error().Err(err).Str("subject_id", sub).Msg("principal lookup failed")
		return nil, perrs.Forbiddenf(msgUnverifiable)
	}
	if !pr.Resolved() {
		return nil, nil
	}
	if pr.SubjectID == "" {
		c := *pr
		c.SubjectID = sub
		pr = &c
	}
	return pr, nil
}
