package httpkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/core/access"
	phttp "storefront/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

// stubVerifier accepts "good-<subject>" tokens
type stubVerifier struct{ calls int }

func (s *stubVerifier) VerifyBearerToken(_ context.Context, tok string) (string, error) {
	s.calls++
	const prefix = "good-"
	if len(tok) > len(prefix) && tok[:len(prefix)] == prefix {
		return tok[len(prefix):], nil
	}
	return "", errors.New("signature mismatch at offset 12")
}

// stubLookup serves principals from a map
type stubLookup struct {
	byID  map[string]*access.Principal
	err   error
	calls int
}

func (s *stubLookup) Lookup(_ context.Context, id string) (*access.Principal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.byID[id], nil
}

func newRouter() (Router, *chi.Mux) {
	mux := chi.NewRouter()
	return phttp.AdaptChi(mux), mux
}

func do(t *testing.T, h http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func envelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("bad json %q: %v", rr.Body.String(), err)
	}
	return m
}

func bearer(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }
