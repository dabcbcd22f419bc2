package api

import (
	"net/http"

	"storefront/internal/core/access"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/metrics"
	"storefront/internal/services/audit"
)

// denials counts every refused request and hands it to the audit recorder
type denials struct{ rec audit.Recorder }

// guard observes the forgery guards
func (d denials) guard(r *http.Request, err error) {
	kind := audit.KindCSRF
	if perr.IsCode(err, perr.ErrorCodeOrigin) {
		kind = audit.KindOrigin
	}
	d.record(r, kind, perr.CodeOf(err), perr.WireFrom(err).Message)
}

// auth observes denials written by the auth port
func (d denials) auth(r *http.Request, err error) {
	d.record(r, audit.KindAuth, perr.CodeOf(err), perr.WireFrom(err).Message)
}

// route observes the page gate
func (d denials) route(r *http.Request, dec access.Decision) {
	d.record(r, audit.KindRoute, perr.ErrorCodeForbidden, dec.Message)
}

func (d denials) record(r *http.Request, kind audit.Kind, code perr.ErrorCode, reason string) {
	metrics.DenialsTotal.WithLabelValues(string(code)).Inc()
	d.rec.Record(r.Context(), audit.Event{Kind: kind, Path: r.URL.Path, Reason: reason})
}
