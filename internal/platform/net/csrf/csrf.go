// Package csrf issues and verifies cookie-bound CSRF tokens
//
// A client holds one high-entropy secret in an HttpOnly SameSite=Strict cookie.
// Tokens are derived from that secret as salt.HMAC-SHA256(secret, salt), so any
// number of tokens can be minted for one secret and each verifies against it.
// Tokens are not single-use: a leaked token stays valid for the cookie lifetime.
package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/net/http/bind"
)

const (
	secretBytes = 32
	saltBytes   = 8
	tokenSep    = "."
)

var b64 = base64.RawURLEncoding

// randRead is a seam so tests can simulate an entropy failure
var randRead = rand.Read

// Body is a parsed request body: a JSON object or url-encoded form fields
type Body map[string]any

// Config is the cookie and transport policy, built once at startup
type Config struct {
	CookieName    string        `validate:"required"`
	CookiePath    string        `validate:"required,startswith=/"`
	HeaderName    string        `validate:"required"`
	FieldName     string        `validate:"required"`
	LongFieldName string        `validate:"required"`
	TTL           time.Duration `validate:"gt=0"`
	// Dev drops the Secure cookie attribute for plain http localhost
	Dev bool
}

// DefaultConfig returns the storefront cookie policy
func DefaultConfig() Config {
	return Config{
		CookieName:    "csrf_secret",
		CookiePath:    "/",
		HeaderName:    "X-CSRF-Token",
		FieldName:     "csrf_token",
		LongFieldName: "csrfToken",
		TTL:           24 * time.Hour,
	}
}

// Manager mints secrets and tokens and validates requests against them
// It holds no per-client state and is safe for concurrent use
type Manager struct {
	cfg Config
}

// New validates cfg and returns a Manager
func New(cfg Config) (*Manager, error) {
	if err := bind.Struct(cfg); err != nil {
		return nil, perr.WithOp(err, "csrf.New")
	}
	return &Manager{cfg: cfg}, nil
}

// Config returns the policy the manager was built with
func (m *Manager) Config() Config { return m.cfg }

// NewSecret returns a fresh random secret
func (m *Manager) NewSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := randRead(buf); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "entropy unavailable")
	}
	return b64.EncodeToString(buf), nil
}

// Token derives a new token from secret
func (m *Manager) Token(secret string) (string, error) {
	key, ok := decodeSecret(secret)
	if !ok {
		return "", perr.InvalidArgf("malformed csrf secret")
	}
	salt := make([]byte, saltBytes)
	if _, err := randRead(salt); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "entropy unavailable")
	}
	s := b64.EncodeToString(salt)
	return s + tokenSep + b64.EncodeToString(sign(key, s)), nil
}

// GenerateSecretTokenPair returns a new secret and a token derived from it
func (m *Manager) GenerateSecretTokenPair() (secret, token string, err error) {
	if secret, err = m.NewSecret(); err != nil {
		return "", "", err
	}
	if token, err = m.Token(secret); err != nil {
		return "", "", err
	}
	return secret, token, nil
}

// Verify reports whether token was derived from secret
// Malformed input is a mismatch, never an error
func (m *Manager) Verify(secret, token string) bool {
	key, ok := decodeSecret(secret)
	if !ok {
		return false
	}
	salt, mac, ok := strings.Cut(token, tokenSep)
	if !ok || salt == "" || mac == "" {
		return false
	}
	got, err := b64.DecodeString(mac)
	if err != nil {
		return false
	}
	return hmac.Equal(got, sign(key, salt))
}

// GetOrCreateSecret returns the secret from the request cookie, or a new one with isNew set
// The request is only read; the caller sets the cookie when isNew is true
func (m *Manager) GetOrCreateSecret(r *http.Request) (secret string, isNew bool, err error) {
	if c, cerr := r.Cookie(m.cfg.CookieName); cerr == nil {
		if _, ok := decodeSecret(c.Value); ok {
			return c.Value, false, nil
		}
	}
	secret, err = m.NewSecret()
	if err != nil {
		return "", false, err
	}
	return secret, true, nil
}

// SetSecretCookie writes the secret cookie; Secure unless the manager runs in dev mode
func (m *Manager) SetSecretCookie(w http.ResponseWriter, secret string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    secret,
		Path:     m.cfg.CookiePath,
		MaxAge:   int(m.cfg.TTL / time.Second),
		Expires:  time.Now().Add(m.cfg.TTL),
		HttpOnly: true,
		Secure:   !m.cfg.Dev,
		SameSite: http.SameSiteStrictMode,
	})
}

// ExtractToken reads the token from the header, then the short and long body fields
// Returns "" when none is present
func (m *Manager) ExtractToken(r *http.Request, body Body) string {
	if v := strings.TrimSpace(r.Header.Get(m.cfg.HeaderName)); v != "" {
		return v
	}
	for _, k := range []string{m.cfg.FieldName, m.cfg.LongFieldName} {
		if s, ok := body[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// Validate checks the request token against the cookie secret
// Any missing piece yields false
func (m *Manager) Validate(r *http.Request, body Body) bool {
	secret, isNew, err := m.GetOrCreateSecret(r)
	if err != nil || isNew {
		return false
	}
	token := m.ExtractToken(r, body)
	if token == "" {
		return false
	}
	return m.Verify(secret, token)
}

// Issue mints a token for the caller, setting the secret cookie first when absent
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request) (string, error) {
	secret, isNew, err := m.GetOrCreateSecret(r)
	if err != nil {
		return "", err
	}
	if isNew {
		m.SetSecretCookie(w, secret)
	}
	return m.Token(secret)
}

func sign(key []byte, salt string) []byte {
	h := hmac.New(sha256.New, key)
	_, _ = h.Write([]byte(salt))
	return h.Sum(nil)
}

func decodeSecret(secret string) ([]byte, bool) {
	if secret == "" {
		return nil, false
	}
	key, err := b64.DecodeString(secret)
	if err != nil || len(key) != secretBytes {
		return nil, false
	}
	return key, true
}
