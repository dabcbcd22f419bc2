// Package http receives billing provider webhooks
package http

import (
	"errors"
	"io"
	stdhttp "net/http"

	"storefront/internal/adapters/billing/stripe"
	"storefront/internal/modkit/httpkit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/services/api/webhooks/domain"
)

// maxPayload bounds a webhook body; provider events are a few KB
const maxPayload = 512 << 10

// Register mounts the webhook endpoints
// These routes must be excluded from the forgery guard; the signature is the proof of origin
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	r.Post("/stripe", httpkit.Call(h.stripe))
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /webhooks/stripe Webhooks webhooksStripe
// @Summary Stripe subscription webhook
// @Description Verifies the Stripe-Signature header, then updates the subscriber's tier and status
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "t=<unix>,v1=<hex>"
// @Success 200 {object} domain.Result "acknowledged"
// @Failure 400 {object} httpkit.Envelope "bad signature or payload"
// @Failure 503 {object} httpkit.Envelope "not configured"
// @Router /webhooks/stripe [post]
func (h *handlers) stripe(r *stdhttp.Request) (any, error) {
	payload, err := io.ReadAll(stdhttp.MaxBytesReader(nil, r.Body, maxPayload))
	if err != nil {
		var tooBig *stdhttp.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, perr.Validationf("payload too large")
		}
		return nil, perr.Validationf("payload could not be read")
	}
	return h.svc.HandleStripe(r.Context(), payload, r.Header.Get(stripe.SignatureHeader))
}
