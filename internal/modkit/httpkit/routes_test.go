package httpkit

import (
	"net/http"
	"testing"
)

func mark(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-MW", name)
			next.ServeHTTP(w, r)
		})
	}
}

func TestMountUnder_AppliesMiddleware(t *testing.T) {
	t.Parallel()
	r, mux := newRouter()
	MountUnder(r, "/billing", []func(http.Handler) http.Handler{mark("a"), mark("b")}, func(sub Router) {
		GetJSON(sub, "/plan", func(*http.Request) (any, error) { return map[string]string{"tier": "lite"}, nil })
	})

	rr := do(t, mux, http.MethodGet, "/billing/plan", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Values("X-MW"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("middleware order = %v", got)
	}
	data, _ := envelope(t, rr)["data"].(map[string]any)
	if data["tier"] != "lite" {
		t.Fatalf("data = %v", data)
	}
}

func TestMountAPIV1(t *testing.T) {
	t.Parallel()
	r, mux := newRouter()
	MountAPIV1(r, nil, func(api Router) {
		api.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})
	MountAPI(r, "/v2", []func(http.Handler) http.Handler{mark("v2")}, func(api Router) {
		api.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})

	if rr := do(t, mux, http.MethodGet, "/api/v1/ping", nil); rr.Code != http.StatusAccepted {
		t.Fatalf("v1 = %d", rr.Code)
	}
	rr := do(t, mux, http.MethodGet, "/api/v2/ping", nil)
	if rr.Code != http.StatusAccepted || rr.Header().Get("X-MW") != "v2" {
		t.Fatalf("v2 = %d %v", rr.Code, rr.Header())
	}
}

func TestMountUnder_EmptyPrefixIsGroup(t *testing.T) {
	t.Parallel()
	r, mux := newRouter()
	MountUnder(r, "", []func(http.Handler) http.Handler{mark("g")}, func(sub Router) {
		GetJSON(sub, "/me", func(*http.Request) (any, error) { return "ok", nil })
	})
	r.Get("/open", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	if rr := do(t, mux, http.MethodGet, "/me", nil); rr.Code != http.StatusOK || rr.Header().Get("X-MW") != "g" {
		t.Fatalf("group route = %d %v", rr.Code, rr.Header())
	}
	if rr := do(t, mux, http.MethodGet, "/open", nil); rr.Header().Get("X-MW") != "" {
		t.Fatalf("group middleware leaked to sibling routes")
	}
}
