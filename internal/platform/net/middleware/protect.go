package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/logger"
	phttp "storefront/internal/platform/net/http"
	"storefront/internal/platform/net/csrf"
	"storefront/internal/platform/net/origin"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultMaxBody = 1 << 20

// ProtectOptions tunes the forgery guards
type ProtectOptions struct {
	// Dev disables the guards entirely; never set outside local development
	Dev bool
	// Exclude holds doublestar path globs that skip the guards, e.g. "/api/v1/webhooks/**"
	// Only for endpoints that verify their own signatures
	Exclude []string
	// MaxBody bounds how much body is read while looking for a token, default 1MB
	MaxBody int64
	// OnDeny observes every denial before the response is written
	OnDeny func(r *http.Request, err error)
}

type parsedBodyKey struct{}

// ParsedBody returns the body parsed by the guard, nil when none was parsed
func ParsedBody(ctx context.Context) csrf.Body {
	b, _ := ctx.Value(parsedBodyKey{}).(csrf.Body)
	return b
}

// Protect enforces CSRF tokens on state-changing requests
func Protect(m *csrf.Manager, opts ProtectOptions) func(http.Handler) http.Handler {
	return protect(m, nil, opts)
}

// ProtectEnhanced checks Origin and Referer against v before enforcing CSRF tokens
func ProtectEnhanced(m *csrf.Manager, v *origin.Validator, opts ProtectOptions) func(http.Handler) http.Handler {
	if v == nil {
		panic("middleware: ProtectEnhanced requires an origin validator")
	}
	return protect(m, v, opts)
}

func protect(m *csrf.Manager, v *origin.Validator, opts ProtectOptions) func(http.Handler) http.Handler {
	if m == nil {
		panic("middleware: csrf manager is required")
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			panic(fmt.Sprintf("middleware: invalid exclude pattern %q", p))
		}
	}
	limit := opts.MaxBody
	if limit <= 0 {
		limit = defaultMaxBody
	}

	deny := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.C(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("code", string(perr.CodeOf(err))).
			Msg("request guard denied")
		if opts.OnDeny != nil {
			opts.OnDeny(r, err)
		}
		phttp.RespondError(w, r, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || opts.Dev || excluded(opts.Exclude, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if v != nil && !v.VerifyRequest(r) {
				deny(w, r, perr.Originf("Request origin is not allowed."))
				return
			}

			body, err := readBody(r, limit)
			if err != nil {
				deny(w, r, perr.Validationf("Request body could not be read."))
				return
			}

			if !m.Validate(r, body) {
				reissue(m, w, r)
				deny(w, r, perr.CSRFf("Invalid or missing CSRF token."))
				return
			}

			ctx := context.WithValue(r.Context(), parsedBodyKey{}, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// reissue stores a secret cookie for a client that has none and hands back a
// fresh token in the CSRF header so the next attempt can succeed
func reissue(m *csrf.Manager, w http.ResponseWriter, r *http.Request) {
	tok, err := m.Issue(w, r)
	if err != nil {
		logger.C(r.Context()).Warn().Err(err).Msg("csrf token reissue failed")
		return
	}
	w.Header().Set(m.Config().HeaderName, tok)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func excluded(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// readBody buffers up to limit bytes, restores r.Body, and parses JSON or form fields
// A body that does not parse yields nil; only a failing read is an error
func readBody(r *http.Request, limit int64) (csrf.Body, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		// too large to inspect; hand the stream on intact
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}
		return nil, nil
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))

	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil
	}
	switch mt {
	case "application/json":
		var out map[string]any
		if json.Unmarshal(raw, &out) != nil {
			return nil, nil
		}
		return csrf.Body(out), nil
	case "application/x-www-form-urlencoded":
		vals, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, nil
		}
		out := make(csrf.Body, len(vals))
		for k, vv := range vals {
			if len(vv) > 0 {
				out[k] = vv[0]
			}
		}
		return out, nil
	}
	return nil, nil
}
