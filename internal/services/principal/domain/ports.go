// Package domain defines the principal store contracts
package domain

import (
	"context"

	"storefront/internal/core/access"
)

// Subscription is the billing state written for one subject
type Subscription struct {
	SubjectID  string
	Tier       access.Tier
	Status     access.Status
	CustomerID string
	// Role is left unchanged when empty; new rows start as access.RoleUser
	Role access.Role
}

// Repo is the persistence contract for principals
type Repo interface {
	// Get returns the stored principal for subjectID, nil when no row exists
	Get(ctx context.Context, subjectID string) (*access.Principal, error)
	// SubjectByCustomer maps a billing customer id back to a subject
	SubjectByCustomer(ctx context.Context, customerID string) (string, bool, error)
	// Upsert writes tier and status for a subject, creating the row when missing
	Upsert(ctx context.Context, s Subscription) error
}

// Cache holds principals keyed by subject id
// A cached entry that is not Resolved records a known anonymous subject
type Cache interface {
	Get(ctx context.Context, subjectID string) (*access.Principal, bool)
	Set(ctx context.Context, subjectID string, p *access.Principal)
	Del(ctx context.Context, subjectID string)
}

// LookupPort resolves principals for the auth layer
type LookupPort interface {
	Lookup(ctx context.Context, subjectID string) (*access.Principal, error)
}

// WriterPort applies billing updates and drops cached copies
type WriterPort interface {
	Apply(ctx context.Context, s Subscription) error
	SubjectByCustomer(ctx context.Context, customerID string) (string, bool, error)
	Invalidate(ctx context.Context, subjectID string)
}

// Ports is the full principal service surface
type Ports interface {
	LookupPort
	WriterPort
}
