// Package jwtauth verifies HS256 bearer tokens issued by the storefront identity service
package jwtauth

import (
	"context"
	"errors"
	"time"

	"storefront/internal/platform/config"
	"storefront/internal/platform/net/http/bind"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSubject is returned for a valid token without a sub claim
var ErrNoSubject = errors.New("jwtauth: token has no subject")

// Config holds the shared secret and the expected claims
type Config struct {
	Secret   string        `validate:"required,min=32"`
	Issuer   string
	Audience string
	Leeway   time.Duration `validate:"min=0"`
}

// FromConfig reads JWT_SECRET, JWT_ISSUER, JWT_AUDIENCE and JWT_LEEWAY from the view
func FromConfig(cfg config.Conf) Config {
	return Config{
		Secret:   cfg.MayString("JWT_SECRET", ""),
		Issuer:   cfg.MayString("JWT_ISSUER", ""),
		Audience: cfg.MayString("JWT_AUDIENCE", ""),
		Leeway:   cfg.MayDuration("JWT_LEEWAY", 30*time.Second),
	}
}

// Verifier checks signature, expiry, issuer and audience
// Safe for concurrent use
type Verifier struct {
	cfg    Config
	key    []byte
	parser *jwt.Parser
	now    func() time.Time
}

// New validates cfg and builds a Verifier
func New(cfg Config) (*Verifier, error) {
	if err := bind.Struct(cfg); err != nil {
		return nil, err
	}
	v := &Verifier{cfg: cfg, key: []byte(cfg.Secret), now: time.Now}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

// VerifyBearerToken returns the sub claim of a valid token
func (v *Verifier) VerifyBearerToken(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, v.keyFunc); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}

func (v *Verifier) keyFunc(*jwt.Token) (any, error) { return v.key, nil }

// Sign mints a token for subject valid for ttl, used by tests and local tooling
func (v *Verifier) Sign(subject string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if v.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{v.cfg.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.key)
}
