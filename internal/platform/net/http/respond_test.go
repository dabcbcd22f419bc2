package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "storefront/internal/platform/errors"
	pnet "storefront/internal/platform/net"
	phttp "storefront/internal/platform/net/http"
)

func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequestID(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOK(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithReqID(http.MethodGet, "/x", "rid-1"), map[string]string{"a": "b"})
	env := decode(t, rec)
	if rec.Code != http.StatusOK || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %d %+v", rec.Code, env)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type = %q", ct)
	}
}

func TestRespondError_ErrorShape(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, reqWithReqID(http.MethodPost, "/x", "rid-2"), perr.CSRFf("Invalid or missing CSRF token"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &raw)
	if raw["error"] != "CSRF validation failed" || raw["message"] != "Invalid or missing CSRF token" || raw["code"] != "CSRF_ERROR" {
		t.Fatalf("error shape mismatch: %v", raw)
	}
}

func TestHandle_ReturnStyle(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		resp   phttp.Response
		status int
	}{
		{"ok", phttp.OK(map[string]int{"n": 1}), http.StatusOK},
		{"created", phttp.Created("x"), http.StatusCreated},
		{"no content", phttp.NoContent(), http.StatusNoContent},
		{"zero status", phttp.Response{Body: "x"}, http.StatusOK},
		{"perr", phttp.Error(perr.Unauthorizedf("missing bearer token")), http.StatusUnauthorized},
		{"foreign", phttp.Error(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			h := phttp.Handle(func(*http.Request) phttp.Response { return c.resp })
			rec := httptest.NewRecorder()
			h(rec, reqWithReqID(http.MethodGet, "/", "rid"))
			if rec.Code != c.status {
				t.Fatalf("status = %d want %d", rec.Code, c.status)
			}
			if c.status == http.StatusNoContent && rec.Body.Len() != 0 {
				t.Fatalf("204 must have empty body")
			}
		})
	}
}

func TestHandle_HeadersCopied(t *testing.T) {
	t.Parallel()
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusOK, Header: http.Header{"X-Test": {"1"}}}
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Test") != "1" {
		t.Fatalf("header not copied")
	}
}
