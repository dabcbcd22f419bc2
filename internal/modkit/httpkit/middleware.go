package httpkit

import (
	"net/http"
	"strings"
	"time"

	"storefront/internal/core/access"
	perrs "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	pnet "storefront/internal/platform/net"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with CORS and the forgery guards in main as needed
func CommonStack() []func(http.Handler) http.Handler {
	stack := middleware.Defaults()
	return append(stack,
		metrics.Instrument,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}),
	)
}

// Auth requires a verified bearer credential and puts the subject on the context
func Auth(p *Port) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := p.AssertUser(r)
			if err != nil {
				p.deny(w, r, err)
				return
			}
			ctx := pnet.WithSubject(r.Context(), who.SubjectID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTier requires an active subscription at or above tier
// access.TierAny accepts any active subscription
func RequireTier(p *Port, tier access.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pr, err := p.AssertUserWithTier(r, tier)
			if err != nil {
				p.deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), pr)))
		})
	}
}

// RequireRole requires a stored role at or above role
func RequireRole(p *Port, role access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pr, err := p.AssertUserWithRole(r, role)
			if err != nil {
				p.deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), pr)))
		})
	}
}

// GateOptions tunes RouteGate
type GateOptions struct {
	// StripPrefix is removed from the request path before the rules are consulted
	StripPrefix string
	// OnDeny observes every denied decision
	OnDeny func(r *http.Request, d access.Decision)
}

// RouteGate applies the route table to page requests
// Browsers asking for HTML are sent to the redirect with 303; everyone else gets a JSON 403
func RouteGate(p *Port, rules *access.RuleSet, opts GateOptions) func(http.Handler) http.Handler {
	if p == nil || rules == nil {
		panic("httpkit: RouteGate requires a port and a rule set")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if opts.StripPrefix != "" {
				path = strings.TrimPrefix(path, opts.StripPrefix)
				if path == "" || path[0] != '/' {
					path = "/" + path
				}
			}

			pr := p.Principal(r)
			d := rules.Decide(path, pr)
			if d.Allowed {
				metrics.DecisionsTotal.WithLabelValues(metrics.OutcomeAllow).Inc()
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), pr)))
				return
			}

			logger.C(r.Context()).Debug().
				Str("path", path).
				Str("redirect", d.RedirectTo).
				Msg("route gate denied")
			if opts.OnDeny != nil {
				opts.OnDeny(r, d)
			}

			outcome := metrics.OutcomeDeny
			if d.RedirectTo != "" {
				outcome = metrics.OutcomeRedirect
			}
			metrics.DecisionsTotal.WithLabelValues(outcome).Inc()

			if d.RedirectTo != "" && wantsHTML(r) {
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
				return
			}
			phttp.RespondError(w, r, perrs.WithRedirect(perrs.Forbiddenf("%s", d.Message), d.RedirectTo))
		})
	}
}

func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
