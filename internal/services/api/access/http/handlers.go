// Package http exposes entitlement checks over HTTP
package http

import (
	stdhttp "net/http"
	"strings"

	"storefront/internal/core/access"
	"storefront/internal/modkit/httpkit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/services/api/access/domain"
)

// Register mounts the access endpoints; p resolves callers
func Register(r httpkit.Router, p *httpkit.Port, s domain.ServicePort) {
	h := &handlers{svc: s, port: p}

	httpkit.GetJSON(r, "/access", h.decide)
	httpkit.GetJSON(r, "/access/rules", h.rules)

	httpkit.Protected(r, p, func(pr httpkit.Router) {
		httpkit.GetJSON(pr, "/me", h.me)
	})
	httpkit.Entitled(r, p, access.TierAny, func(er httpkit.Router) {
		httpkit.GetJSON(er, "/me/subscription", h.subscription)
	})
	httpkit.Entitled(r, p, access.TierPartner, func(er httpkit.Router) {
		httpkit.GetJSON(er, "/partner/brand-deals", h.brandDeals)
	})
}

type handlers struct {
	svc  domain.ServicePort
	port *httpkit.Port
}

// swagger:route GET /access Access accessDecide
// @Summary Decide whether the caller may open a page
// @Description The bearer token is optional; anonymous callers are evaluated as such
// @Tags Access
// @Produce json
// @Param path query string true "Page path" example(/dashboard/analytics)
// @Success 200 {object} domain.DecisionOutput "decision"
// @Failure 400 {object} httpkit.Envelope "path missing"
// @Router /access [get]
func (h *handlers) decide(r *stdhttp.Request) (any, error) {
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" || !strings.HasPrefix(path, "/") {
		return nil, perr.WithField(perr.Validationf("path must be an absolute page path"), "path")
	}
	return h.svc.Decide(path, h.port.Principal(r)), nil
}

// swagger:route GET /access/rules Access accessRules
// @Summary List the route table
// @Tags Access
// @Produce json
// @Success 200 {array} domain.RuleOutput "rules"
// @Router /access/rules [get]
func (h *handlers) rules(*stdhttp.Request) (any, error) {
	return h.svc.Rules(), nil
}

// swagger:route GET /me Access accessMe
// @Summary The signed in caller
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MeOutput "caller"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Router /me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	sub := httpkit.MustSubject(r)
	out := domain.MeOutput{SubjectID: sub, Role: string(access.RoleUser)}
	if p := h.port.Principal(r); p != nil {
		out.Tier, out.Status, out.Role, out.Resolved = string(p.Tier), string(p.Status), string(p.Role), true
	}
	return out, nil
}

// swagger:route GET /me/subscription Access accessSubscription
// @Summary The caller's active subscription
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SubscriptionOutput "subscription"
// @Failure 401 {object} httpkit.Envelope "unauthorized"
// @Failure 403 {object} httpkit.Envelope "no active subscription"
// @Router /me/subscription [get]
func (h *handlers) subscription(r *stdhttp.Request) (any, error) {
	return h.svc.Subscription(httpkit.MustPrincipal(r)), nil
}

// swagger:route GET /partner/brand-deals Access accessBrandDeals
// @Summary Partner brand deals
// @Tags Access
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.BrandDeal "deals"
// @Failure 403 {object} httpkit.Envelope "requires partner tier"
// @Router /partner/brand-deals [get]
func (h *handlers) brandDeals(r *stdhttp.Request) (any, error) {
	return h.svc.BrandDeals(r.Context())
}
