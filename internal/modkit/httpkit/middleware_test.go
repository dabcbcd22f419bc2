package httpkit

import (
	"net/http"
	"testing"

	"storefront/internal/core/access"
	perrs "storefront/internal/platform/errors"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Subject", MustSubject(r))
	w.WriteHeader(http.StatusNoContent)
}

func TestCommonStack_RequestReachesHandler(t *testing.T) {
	r, mux := newRouter()
	r.Use(CommonStack()...)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rr := do(t, mux, http.MethodGet, "/ping", nil)
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" && rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("expected common headers, got %v", rr.Header())
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	r, mux := newRouter()
	Protected(r, NewPort(&stubVerifier{}, nil), func(pr Router) {
		pr.Get("/me", okHandler)
	})

	rr := do(t, mux, http.MethodGet, "/me", nil)
	if rr.Code != http.StatusUnauthorized || envelope(t, rr)["code"] != "UNAUTHORIZED" {
		t.Fatalf("anon = %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, mux, http.MethodGet, "/me", bearer("good-u1"))
	if rr.Code != http.StatusNoContent || rr.Header().Get("X-Subject") != "u1" {
		t.Fatalf("authed = %d %v", rr.Code, rr.Header())
	}
}

func TestDenyHook(t *testing.T) {
	t.Parallel()
	var seen []perrs.ErrorCode
	p := NewPort(&stubVerifier{}, &stubLookup{byID: map[string]*access.Principal{}},
		WithDenyHook(func(_ *http.Request, err error) { seen = append(seen, perrs.CodeOf(err)) }))
	r, mux := newRouter()
	Protected(r, p, func(pr Router) { pr.Get("/me", okHandler) })
	Entitled(r, p, access.TierAny, func(pr Router) { pr.Get("/sub", okHandler) })

	do(t, mux, http.MethodGet, "/me", nil)
	do(t, mux, http.MethodGet, "/sub", bearer("good-nobody"))
	do(t, mux, http.MethodGet, "/me", bearer("good-u1"))
	if len(seen) != 2 || seen[0] != perrs.ErrorCodeUnauthorized || seen[1] != perrs.ErrorCodeForbidden {
		t.Fatalf("hook saw %v", seen)
	}
}

func TestRequireTierMiddleware(t *testing.T) {
	t.Parallel()
	look := &stubLookup{byID: map[string]*access.Principal{
		"g": {Tier: access.TierGrowth, Status: access.StatusActive},
		"p": {Tier: access.TierPartner, Status: access.StatusActive},
	}}
	r, mux := newRouter()
	Entitled(r, NewPort(&stubVerifier{}, look), access.TierPartner, func(pr Router) {
		pr.Get("/deals", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Tier", string(MustPrincipal(r).Tier))
			okHandler(w, r)
		})
	})

	rr := do(t, mux, http.MethodGet, "/deals", bearer("good-g"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("growth = %d", rr.Code)
	}
	env := envelope(t, rr)
	if env["message"] != "Requires Partner tier or higher. Upgrade to access." || env["redirect"] != nil {
		t.Fatalf("growth envelope = %v", env)
	}

	rr = do(t, mux, http.MethodGet, "/deals", bearer("good-p"))
	if rr.Code != http.StatusNoContent || rr.Header().Get("X-Tier") != "partner" {
		t.Fatalf("partner = %d %v", rr.Code, rr.Header())
	}
}

func TestRequireRoleMiddleware(t *testing.T) {
	t.Parallel()
	look := &stubLookup{byID: map[string]*access.Principal{
		"u":  {Tier: access.TierPartner, Status: access.StatusActive, Role: access.RoleUser},
		"a":  {Tier: access.TierLite, Status: access.StatusCancelled, Role: access.RoleAdmin},
		"su": {Tier: access.TierLite, Status: access.StatusActive, Role: access.RoleSuperuser},
		"x":  {Tier: access.TierLite, Status: access.StatusActive, Role: "root"},
	}}
	r, mux := newRouter()
	Privileged(r, NewPort(&stubVerifier{}, look), access.RoleAdmin, func(pr Router) {
		pr.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Role", string(MustPrincipal(r).Role))
			okHandler(w, r)
		})
	})

	cases := []struct {
		name   string
		hdr    map[string]string
		status int
		role   string
	}{
		{"anonymous", nil, http.StatusUnauthorized, ""},
		{"partner user", bearer("good-u"), http.StatusForbidden, ""},
		{"unknown role", bearer("good-x"), http.StatusForbidden, ""},
		{"no record", bearer("good-ghost"), http.StatusForbidden, ""},
		{"admin with cancelled plan", bearer("good-a"), http.StatusNoContent, "admin"},
		{"superuser", bearer("good-su"), http.StatusNoContent, "superuser"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodGet, "/leads", c.hdr)
			if rr.Code != c.status {
				t.Fatalf("status = %d want %d (%s)", rr.Code, c.status, rr.Body.String())
			}
			if c.status == http.StatusForbidden {
				if env := envelope(t, rr); env["message"] != "Requires admin role or higher." || env["code"] != "FORBIDDEN" {
					t.Fatalf("envelope = %v", env)
				}
			}
			if rr.Header().Get("X-Role") != c.role {
				t.Fatalf("role = %q", rr.Header().Get("X-Role"))
			}
		})
	}
}

func TestRouteGate(t *testing.T) {
	t.Parallel()
	look := &stubLookup{byID: map[string]*access.Principal{
		"g": {Tier: access.TierGrowth, Status: access.StatusActive},
		"s": {Tier: access.TierPartner, Status: access.StatusSuspended},
	}}
	var denied []access.Decision
	gate := RouteGate(NewPort(&stubVerifier{}, look), access.MustRuleSet(access.DefaultRules()), GateOptions{
		StripPrefix: "/app",
		OnDeny:      func(_ *http.Request, d access.Decision) { denied = append(denied, d) },
	})
	h := gate(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	html := map[string]string{"Accept": "text/html,application/xhtml+xml"}
	rr := do(t, h, http.MethodGet, "/app/dashboard", html)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/pricing" {
		t.Fatalf("anon html = %d %v", rr.Code, rr.Header())
	}

	rr = do(t, h, http.MethodGet, "/app/dashboard", nil)
	if env := envelope(t, rr); rr.Code != http.StatusForbidden || env["redirect"] != "/pricing" || env["message"] != access.MsgSubscriptionRequired {
		t.Fatalf("anon json = %d %v", rr.Code, env)
	}

	hdr := bearer("good-s")
	hdr["Accept"] = "text/html"
	if rr = do(t, h, http.MethodGet, "/app/account", hdr); rr.Header().Get("Location") != "/pricing" {
		t.Fatalf("suspended = %d %v", rr.Code, rr.Header())
	}

	// insufficient tier never redirects, even for browsers
	hdr = bearer("good-g")
	hdr["Accept"] = "text/html"
	rr = do(t, h, http.MethodGet, "/app/dashboard/brand-deals", hdr)
	if rr.Code != http.StatusForbidden || envelope(t, rr)["redirect"] != nil {
		t.Fatalf("growth brand deals = %d %s", rr.Code, rr.Body.String())
	}

	for _, path := range []string{"/app/pricing", "/app/dashboard/analytics", "/app/unlisted"} {
		if rr = do(t, h, http.MethodGet, path, bearer("good-g")); rr.Code != http.StatusOK {
			t.Fatalf("%s = %d", path, rr.Code)
		}
	}
	if len(denied) != 4 {
		t.Fatalf("OnDeny saw %d denials", len(denied))
	}
}
