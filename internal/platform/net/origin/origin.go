// Package origin checks Origin and Referer headers against a fixed allow-list
package origin

import (
	"net/http"
	"net/url"
	"strings"
)

// devOrigins are the local frontends allowed when running in dev mode
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:4000",
	"http://127.0.0.1:3000",
}

// Validator holds an immutable allow-list of scheme://host[:port] origins
// No wildcard or subdomain matching is performed
type Validator struct {
	allowed map[string]struct{}
	list    []string
}

// New builds a validator; blank entries are dropped
func New(allow ...string) *Validator {
	v := &Validator{allowed: make(map[string]struct{}, len(allow))}
	for _, a := range allow {
		a = normalize(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if _, dup := v.allowed[a]; dup {
			continue
		}
		v.allowed[a] = struct{}{}
		v.list = append(v.list, a)
	}
	return v
}

// Default allows the public base URL, the extra origins, and the local dev origins when dev is set
func Default(publicURL string, dev bool, extra ...string) *Validator {
	allow := append([]string{publicURL}, extra...)
	if dev {
		allow = append(allow, devOrigins...)
	}
	return New(allow...)
}

// Allowed returns a copy of the normalized allow-list
func (v *Validator) Allowed() []string { return append([]string(nil), v.list...) }

// Verify reports whether origin is allow-listed. An absent origin is not
func (v *Validator) Verify(origin string) bool {
	if origin == "" {
		return false
	}
	_, ok := v.allowed[normalize(origin)]
	return ok
}

// VerifyReferer reduces a Referer URL to its origin and verifies it
func (v *Validator) VerifyReferer(ref string) bool {
	o, ok := FromReferer(ref)
	return ok && v.Verify(o)
}

// VerifyRequest checks every present header of Origin and Referer
// Both absent fails; a present header that is not allow-listed fails
func (v *Validator) VerifyRequest(r *http.Request) bool {
	o := r.Header.Get("Origin")
	ref := r.Header.Get("Referer")
	if o == "" && ref == "" {
		return false
	}
	if o != "" && !v.Verify(o) {
		return false
	}
	if ref != "" && !v.VerifyReferer(ref) {
		return false
	}
	return true
}

// FromReferer returns scheme://host[:port] of an absolute http(s) URL
func FromReferer(ref string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.Scheme + "://" + u.Host, true
}

// normalize strips a single trailing slash
func normalize(s string) string { return strings.TrimSuffix(s, "/") }
