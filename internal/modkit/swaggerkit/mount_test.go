//go:build !swag

package swaggerkit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	phttp "storefront/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMount(t *testing.T) {
	t.Parallel()

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), false)
	rec := httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled docs answered %d", rec.Code)
	}

	on := chi.NewRouter()
	Mount(phttp.AdaptChi(on), true)

	rec = httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect || rec.Header().Get("Location") != "/api/docs/" {
		t.Fatalf("redirect = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	on.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("doc.json = %d %v", rec.Code, rec.Header())
	}
	if body := rec.Body.String(); !strings.Contains(body, `"Storefront API"`) {
		t.Fatalf("doc.json body = %s", body)
	}
}
