// Package http serves CSRF tokens to browser clients
package http

import (
	stdhttp "net/http"

	"storefront/internal/modkit/httpkit"
	"storefront/internal/platform/net/csrf"
)

// TokenResponse carries the token the client echoes on state-changing requests
type TokenResponse struct {
	Token  string `json:"token"  example:"c2FsdHNhbHQ.kq0v5iWd9oXQnb7u2n3d0w1x4Yb1Y9dJzq3n8QpL2m0"`
	Header string `json:"header" example:"X-CSRF-Token"`
}

// Register mounts the token endpoint
func Register(r httpkit.Router, m *csrf.Manager) {
	h := &handlers{m: m}
	r.Get("/", h.token)
}

type handlers struct{ m *csrf.Manager }

// swagger:route GET /csrf-token CSRF csrfToken
// @Summary Issue a CSRF token
// @Description Sets the secret cookie when missing and returns a token bound to it
// @Tags CSRF
// @Produce json
// @Success 200 {object} TokenResponse "ok"
// @Router /csrf-token [get]
func (h *handlers) token(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	tok, err := h.m.Issue(w, r)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	httpkit.RespondOK(w, r, TokenResponse{Token: tok, Header: h.m.Config().HeaderName})
}
