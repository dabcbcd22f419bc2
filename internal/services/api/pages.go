package api

import (
	"net/http"

	"storefront/internal/core/access"
	"storefront/internal/modkit/httpkit"
	"storefront/internal/platform/metrics"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/middleware"
)

// gatedPages are the page trees behind the route table
var gatedPages = []string{"/dashboard", "/dashboard/*", "/account", "/account/*"}

// pageView is what the placeholder renders when no static build is configured
type pageView struct {
	Page      string `json:"page"`
	SubjectID string `json:"subject_id,omitempty"`
	Tier      string `json:"tier,omitempty"`
}

// mountPages puts the route gate in front of the dashboard and account pages
// staticDir serves a built frontend; empty renders a JSON placeholder
func mountPages(r phttp.Router, p *httpkit.Port, rules *access.RuleSet, staticDir string, onDeny func(*http.Request, access.Decision)) {
	h := placeholder()
	if staticDir != "" {
		h = http.FileServer(http.Dir(staticDir))
	}
	r.Group(func(g phttp.Router) {
		g.Use(middleware.RealIP(), middleware.RequestID(), middleware.RecoverJSON, metrics.Instrument)
		g.Use(httpkit.RouteGate(p, rules, httpkit.GateOptions{OnDeny: onDeny}))
		for _, path := range gatedPages {
			g.Handle(path, h)
		}
	})
}

func placeholder() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := pageView{Page: r.URL.Path}
		if pr := httpkit.PrincipalFrom(r.Context()); pr != nil {
			v.SubjectID, v.Tier = pr.SubjectID, string(pr.Tier)
		}
		httpkit.RespondOK(w, r, v)
	})
}
