// Package metrics holds the process wide prometheus collectors
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Outcomes for access decisions
const (
	OutcomeAllow    = "allow"
	OutcomeRedirect = "redirect"
	OutcomeDeny     = "deny"
)

var (
	// HTTP
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time taken to serve an HTTP request.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Access
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Route access decisions by outcome.",
	}, []string{"outcome"})

	DenialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denials_total",
		Help:      "Denied requests by error code.",
	}, []string{"code"})

	// Principal store
	PrincipalLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principal_lookups_total",
		Help:      "Principal lookups by the layer that answered.",
	}, []string{"source"})

	// Audit sink
	AuditEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Audit events by fate: written, dropped or failed.",
	}, []string{"result"})
)

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// Instrument records request latency labelled by the chi route pattern
// Unmatched routes share one label so path scans cannot blow up cardinality
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
