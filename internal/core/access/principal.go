package access

import "strings"

// Status is the billing state of a subscription
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusSuspended Status = "suspended"
)

// Known reports whether s is a defined status
func (s Status) Known() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusSuspended:
		return true
	}
	return false
}

// ParseStatus normalizes s and reports whether it names a status
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Known()
}

// Principal is the resolved identity and entitlement of the caller
// A nil *Principal is the anonymous caller
type Principal struct {
	SubjectID string `json:"subject_id"`
	Tier      Tier   `json:"tier,omitempty"`
	Status    Status `json:"status,omitempty"`
	Role      Role   `json:"role"`
}

// Resolved reports whether tier and status are both populated, as a store lookup guarantees
func (p *Principal) Resolved() bool {
	return p != nil && p.Tier != "" && p.Status != ""
}

// Active reports whether the principal holds an active subscription
func (p *Principal) Active() bool {
	return p != nil && p.Status == StatusActive
}
