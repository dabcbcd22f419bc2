// Package stripe verifies and decodes billing webhooks through stripe-go
package stripe

import (
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

// SignatureHeader is the request header carrying the webhook signature
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance bounds how old a signed timestamp may be
const DefaultTolerance = webhook.DefaultTolerance

// Signature failures, as reported by stripe-go
var (
	ErrNoSignature      = webhook.ErrNotSigned
	ErrBadHeader        = webhook.ErrInvalidHeader
	ErrSignatureExpired = webhook.ErrTooOld
	ErrSignatureInvalid = webhook.ErrNoValidSignature
)

// ErrMalformedEvent marks a correctly signed body that is not an event
var ErrMalformedEvent = errors.New("stripe: malformed event")

// IsSignatureError reports whether err rejects the signature rather than the body
func IsSignatureError(err error) bool {
	return errors.Is(err, ErrNoSignature) ||
		errors.Is(err, ErrBadHeader) ||
		errors.Is(err, ErrSignatureExpired) ||
		errors.Is(err, ErrSignatureInvalid)
}

// ConstructEvent verifies header over payload, then decodes the envelope
// header has the form "t=<unix>,v1=<hex>[,v1=<hex>...]"; any matching v1 passes.
// Events rendered for another API version are accepted since only stable
// subscription fields are read
func ConstructEvent(payload []byte, header, secret string, tolerance time.Duration) (Event, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	ev, err := webhook.ConstructEventWithOptions(payload, header, secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if IsSignatureError(err) {
			return Event{}, err
		}
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.ID == "" || ev.Type == "" {
		return Event{}, fmt.Errorf("%w: event without id or type", ErrMalformedEvent)
	}
	return Event{Event: ev}, nil
}

// Sign renders a header for payload at ts, used by tests and local tooling
func Sign(payload []byte, secret string, ts time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: ts,
	}).Header
}
