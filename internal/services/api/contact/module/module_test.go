package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/core/access"
	modkit "storefront/internal/modkit"
	"storefront/internal/modkit/httpkit"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/csrf"
	"storefront/internal/platform/net/middleware"
	"storefront/internal/platform/net/origin"
	"storefront/internal/platform/store"
	csrfmod "storefront/internal/services/api/csrf/module"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const site = "https://shop.example"

// fakeDB keeps lead ids and names in memory
type fakeDB struct {
	store.RowQuerier
	mu    sync.Mutex
	leads map[string]string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.leads == nil {
		f.leads = map[string]string{}
	}
	id := args[0].(uuid.UUID).String()
	if strings.Contains(sql, "delete from leads") {
		if _, ok := f.leads[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.leads, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	f.leads[id] = args[1].(string)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := &leadRows{}
	for id, name := range f.leads {
		rows.ids = append(rows.ids, id)
		rows.names = append(rows.names, name)
	}
	return rows, nil
}

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

func (f *fakeDB) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

type leadRows struct {
	ids, names []string
	i          int
}

func (r *leadRows) Next() bool { r.i++; return r.i <= len(r.ids) }
func (r *leadRows) Scan(dst ...any) error {
	*(dst[0].(*string)) = r.ids[r.i-1]
	*(dst[1].(*string)) = r.names[r.i-1]
	*(dst[6].(*time.Time)) = time.Unix(0, 0)
	return nil
}
func (r *leadRows) Err() error        { return nil }
func (r *leadRows) Close()            {}
func (r *leadRows) Columns() []string { return nil }

// staff maps bearer tokens to roles
var staff = map[string]access.Role{
	"tok-user":  access.RoleUser,
	"tok-admin": access.RoleAdmin,
}

func authPort() *httpkit.Port {
	verify := httpkit.VerifierFunc(func(_ context.Context, tok string) (string, error) {
		if _, ok := staff[tok]; !ok {
			return "", errors.New("unknown token")
		}
		return "sub-" + tok, nil
	})
	lookup := httpkit.LookupFunc(func(_ context.Context, sub string) (*access.Principal, error) {
		return &access.Principal{
			SubjectID: sub,
			Tier:      access.TierLite,
			Status:    access.StatusActive,
			Role:      staff[strings.TrimPrefix(sub, "sub-")],
		}, nil
	})
	return httpkit.NewPort(verify, lookup)
}

type env struct {
	mux *chi.Mux
	db  *fakeDB
}

// newEnv mounts the way the API does: the standard guard on every write
// except lead admin, which runs the enhanced guard at route level
func newEnv(t *testing.T) env {
	t.Helper()
	m, err := csrf.New(csrf.DefaultConfig())
	require.NoError(t, err)

	db := &fakeDB{}
	deps := modkit.Deps{PG: db, Auth: authPort()}
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Use(middleware.Protect(m, middleware.ProtectOptions{Exclude: []string{"/contact/leads/**"}}))

	csrfmod.New(deps, m).MountRoutes(r)
	New(deps, Options{
		AdminGuard: middleware.ProtectEnhanced(m, origin.New(site), middleware.ProtectOptions{}),
	}).MountRoutes(r)
	return env{mux: mux, db: db}
}

func (e env) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// token fetches a token and the secret cookie the way the browser would
func (e env) token(t *testing.T) (string, *http.Cookie) {
	t.Helper()
	rec := e.serve(httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Token  string `json:"token"`
			Header string `json:"header"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "X-CSRF-Token", body.Data.Header)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return body.Data.Token, cookies[0]
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const form = `{"name":"Ada","email":"ada@example.com","message":"Tell me about partner."}`

func postForm(tok string, c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("X-CSRF-Token", tok)
	}
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestContact_HeaderlessPostNeedsToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	// a plain POST with no Origin, Referer, cookie or token
	rec := e.serve(postForm("", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "CSRF_ERROR", decode(t, rec)["code"])
	assert.Zero(t, e.db.count())

	// the same request with a fetched token succeeds, still without Origin
	tok, c := e.token(t)
	rec = e.serve(postForm(tok, c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data, _ := decode(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, 1, e.db.count())
}

func TestContact_DenialHandsBackToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	rec := e.serve(postForm("", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	tok := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, tok)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	rec = e.serve(postForm(tok, cookies[0]))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestContact_ForeignOriginStillAccepted(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	tok, c := e.token(t)

	// the public form is token bound, not origin bound
	req := postForm(tok, c)
	req.Header.Set("Origin", "https://partner.example")
	rec := e.serve(req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestContact_FormFieldToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	tok, c := e.token(t)

	vals := url.Values{
		"name":       {"Ada"},
		"email":      {"ada@example.com"},
		"message":    {"Tell me about partner."},
		"csrf_token": {tok},
	}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(c)
	rec := e.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestContact_ValidatesInput(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	tok, c := e.token(t)

	req := httptest.NewRequest(http.MethodPost, "/contact",
		strings.NewReader(`{"name":"Ada","email":"not-an-email","message":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", tok)
	req.AddCookie(c)
	rec := e.serve(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])
	assert.Zero(t, e.db.count())
}

// submit stores one lead and returns its id
func (e env) submit(t *testing.T) string {
	t.Helper()
	tok, c := e.token(t)
	rec := e.serve(postForm(tok, c))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data, _ := decode(t, rec)["data"].(map[string]any)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestLeads_ListRequiresAdmin(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	id := e.submit(t)

	list := func(bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/contact/leads?limit=10", nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		return e.serve(req)
	}

	rec := list("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = list("tok-user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.Equal(t, "Requires admin role or higher.", body["message"])

	rec = list("tok-admin")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	leads, _ := decode(t, rec)["data"].([]any)
	require.Len(t, leads, 1)
	assert.Equal(t, id, leads[0].(map[string]any)["id"])
}

func TestLeads_ListRejectsBadLimit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/contact/leads?limit=zero", nil)
	req.Header.Set("Authorization", "Bearer tok-admin")
	rec := e.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])
}

func TestLeads_DeleteRunsEnhancedGuardAndRole(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	id := e.submit(t)
	tok, c := e.token(t)

	del := func(origin, bearer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/contact/leads/"+id, nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		req.Header.Set("X-CSRF-Token", tok)
		req.Header.Set("Authorization", "Bearer "+bearer)
		req.AddCookie(c)
		return e.serve(req)
	}

	rec := del("", "tok-admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ORIGIN_ERROR", decode(t, rec)["code"])

	rec = del(site, "tok-user")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, rec)["code"])
	assert.Equal(t, 1, e.db.count())

	rec = del(site, "tok-admin")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, e.db.count())

	rec = del(site, "tok-admin")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeads_DeleteRejectsBadID(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	tok, c := e.token(t)

	req := httptest.NewRequest(http.MethodDelete, "/contact/leads/not-a-uuid", nil)
	req.Header.Set("Origin", site)
	req.Header.Set("X-CSRF-Token", tok)
	req.Header.Set("Authorization", "Bearer tok-admin")
	req.AddCookie(c)
	rec := e.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec)["code"])
}

func TestModule_WithoutAuthMountsFormOnly(t *testing.T) {
	t.Parallel()
	mux := chi.NewRouter()
	New(modkit.Deps{PG: &fakeDB{}}, Options{}).MountRoutes(phttp.AdaptChi(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact/leads", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModule_Accessors(t *testing.T) {
	t.Parallel()
	m := New(modkit.Deps{PG: &fakeDB{}}, Options{})
	assert.Equal(t, "contact", m.Name())
	assert.NotNil(t, m.Ports())
}
