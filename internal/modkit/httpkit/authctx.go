package httpkit

import (
	"context"
	"net/http"

	"storefront/internal/core/access"
	perrs "storefront/internal/platform/errors"
	pnet "storefront/internal/platform/net"
)

type principalKey struct{}

// WithPrincipal stores the resolved principal and its subject on ctx
func WithPrincipal(ctx context.Context, p *access.Principal) context.Context {
	if p == nil {
		return ctx
	}
	ctx = pnet.WithSubject(ctx, p.SubjectID)
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by RequireTier, nil otherwise
func PrincipalFrom(ctx context.Context) *access.Principal {
	p, _ := ctx.Value(principalKey{}).(*access.Principal)
	return p
}

// Subject returns the authenticated subject id from the request context
func Subject(r *http.Request) (string, error) {
	sub := pnet.SubjectID(r.Context())
	if sub == "" {
		return "", perrs.Unauthorizedf(msgMissingToken)
	}
	return sub, nil
}

// MustSubject returns the authenticated subject id or panics
// only use on routes behind Auth or RequireTier
func MustSubject(r *http.Request) string {
	sub, err := Subject(r)
	if err != nil {
		panic(err)
	}
	return sub
}

// MustPrincipal returns the principal or panics; only use behind RequireTier
func MustPrincipal(r *http.Request) *access.Principal {
	p := PrincipalFrom(r.Context())
	if p == nil {
		panic(perrs.Unauthorizedf(msgMissingToken))
	}
	return p
}
