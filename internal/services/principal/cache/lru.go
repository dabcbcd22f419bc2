// Package cache provides principal caches for the lookup path
package cache

import (
	"context"
	"time"

	"storefront/internal/core/access"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults used when the config leaves size or ttl unset
const (
	DefaultSize = 10_000
	DefaultTTL  = 30 * time.Second
)

// LRU is an in process principal cache bounded by size and ttl
type LRU struct {
	c *expirable.LRU[string, access.Principal]
}

// NewLRU builds an LRU cache; non positive size or ttl use the defaults
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{c: expirable.NewLRU[string, access.Principal](size, nil, ttl)}
}

// Get returns a copy so callers cannot mutate the cached value
func (l *LRU) Get(_ context.Context, subjectID string) (*access.Principal, bool) {
	p, ok := l.c.Get(subjectID)
	if !ok {
		return nil, false
	}
	return &p, true
}

// Set stores p, a nil p records a subject with no subscription
func (l *LRU) Set(_ context.Context, subjectID string, p *access.Principal) {
	if p == nil {
		p = &access.Principal{SubjectID: subjectID}
	}
	l.c.Add(subjectID, *p)
}

// Del drops subjectID
func (l *LRU) Del(_ context.Context, subjectID string) { l.c.Remove(subjectID) }

// Len reports how many entries are live
func (l *LRU) Len() int { return l.c.Len() }
