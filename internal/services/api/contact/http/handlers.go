// Package http provides the contact form transport
package http

import (
	stdhttp "net/http"
	"strconv"
	"strings"

	"storefront/internal/core/access"
	"storefront/internal/modkit/httpkit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/services/api/contact/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Register mounts the contact endpoints
// The public form sits behind the standard forgery guard; lead admin needs p,
// and guard (when set) runs ahead of the role check on the delete route
func Register(r httpkit.Router, p *httpkit.Port, guard func(stdhttp.Handler) stdhttp.Handler, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostParsedCreated[domain.ContactInput](r, "/", h.submit)

	if p == nil {
		return
	}
	httpkit.Privileged(r, p, access.RoleAdmin, func(ar httpkit.Router) {
		httpkit.GetJSON(ar, "/leads", h.list)
	})
	r.Group(func(gr httpkit.Router) {
		if guard != nil {
			gr.Use(guard)
		}
		gr.Use(httpkit.RequireRole(p, access.RoleAdmin))
		httpkit.Delete(gr, "/leads/{id}", h.remove)
	})
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /contact Contact contactSubmit
// @Summary Submit the contact form
// @Description Requires a CSRF token (header, csrf_token or csrfToken field) bound to the secret cookie
// @Tags Contact
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param payload body domain.ContactInput true "Form"
// @Success 201 {object} domain.ContactCreated "created"
// @Failure 403 {object} httpkit.Envelope "CSRF_ERROR"
// @Router /contact [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.ContactInput) (any, error) {
	return h.svc.Submit(r.Context(), in)
}

// swagger:route GET /contact/leads Contact contactLeads
// @Summary Recent leads, newest first
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 200)" example(50)
// @Success 200 {array} domain.LeadOutput "leads"
// @Failure 403 {object} httpkit.Envelope "requires admin role"
// @Router /contact/leads [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, perr.WithField(perr.Validationf("limit must be a positive integer"), "limit")
		}
		limit = n
	}
	return h.svc.List(r.Context(), limit)
}

// swagger:route DELETE /contact/leads/{id} Contact contactLeadDelete
// @Summary Delete a lead
// @Description Requires an allowed Origin or Referer and a CSRF token
// @Tags Contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead id"
// @Success 200 {object} domain.LeadDeleted "deleted"
// @Failure 403 {object} httpkit.Envelope "ORIGIN_ERROR, CSRF_ERROR or requires admin role"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /contact/leads/{id} [delete]
func (h *handlers) remove(r *stdhttp.Request) (any, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, perr.WithField(perr.Validationf("lead id must be a uuid"), "id")
	}
	return h.svc.Delete(r.Context(), id)
}
