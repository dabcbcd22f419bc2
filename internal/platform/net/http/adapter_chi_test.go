package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/platform/config"
	phttp "storefront/internal/platform/net/http"
)

func tag(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Mw", v)
			next.ServeHTTP(w, r)
		})
	}
}

func write(s string) phttp.Handler {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, s) }
}

func TestAdapter_RoutesAndMiddleware(t *testing.T) {
	t.Parallel()
	srv := phttp.NewServer(config.New().Prefix("ADAPTER_TEST_"))
	if srv.Addr() != ":4000" {
		t.Fatalf("default addr = %q", srv.Addr())
	}
	r := srv.Router()
	r.Use(tag("root"))
	r.Get("/a", write("get"))
	r.Post("/a", write("post"))
	r.Put("/a", write("put"))
	r.Delete("/a", write("delete"))
	r.With(tag("inline")).Get("/inline", write("inline"))
	r.Route("/v1", func(sub phttp.Router) {
		sub.Group(func(g phttp.Router) {
			g.Use(tag("group"))
			g.Get("/grouped", write("grouped"))
		})
		sub.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "raw")
		}))
	})

	cases := []struct {
		method, path, body string
		mws                []string
	}{
		{http.MethodGet, "/a", "get", []string{"root"}},
		{http.MethodPost, "/a", "post", []string{"root"}},
		{http.MethodPut, "/a", "put", []string{"root"}},
		{http.MethodDelete, "/a", "delete", []string{"root"}},
		{http.MethodGet, "/inline", "inline", []string{"root", "inline"}},
		{http.MethodGet, "/v1/grouped", "grouped", []string{"root", "group"}},
		{http.MethodGet, "/v1/raw", "raw", []string{"root"}},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != c.body {
			t.Fatalf("%s %s = %d %q", c.method, c.path, rec.Code, rec.Body.String())
		}
		got := rec.Header().Values("X-Mw")
		if len(got) != len(c.mws) {
			t.Fatalf("%s %s middleware = %v want %v", c.method, c.path, got, c.mws)
		}
	}
}

func TestMountProfiler(t *testing.T) {
	t.Parallel()
	srv := phttp.NewServer(config.New().Prefix("ADAPTER_TEST_"))
	r := srv.Router()
	phttp.MountProfiler(r, "/debug", false)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler should 404, got %d", rec.Code)
	}

	srv2 := phttp.NewServer(config.New().Prefix("ADAPTER_TEST_"))
	r2 := srv2.Router()
	phttp.MountProfiler(r2, "/debug", true)
	rec = httptest.NewRecorder()
	r2.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("enabled profiler = %d", rec.Code)
	}
}
