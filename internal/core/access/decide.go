package access

import "fmt"

// Denial messages shown to the browser
const (
	MsgSubscriptionRequired = "Subscription required."
	MsgSubscriptionInactive = "Subscription inactive. Update billing to continue."
	MsgFeatureRequiresPlan  = "Subscription required for this feature."
)

// Decision is the outcome of a route check
// RedirectTo is empty on allow and on insufficient tier
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
	Message    string `json:"message,omitempty"`
}

// InsufficientTierMessage renders the upgrade prompt for required
func InsufficientTierMessage(required Tier) string {
	return fmt.Sprintf("Requires %s tier or higher. Upgrade to access.", required.Title())
}

// InsufficientRoleMessage renders the denial for a caller below required
func InsufficientRoleMessage(required Role) string {
	return fmt.Sprintf("Requires %s role or higher.", required)
}

// Decide evaluates path against the table for p, a nil p being anonymous
// Order: public, auth-only, tier-gated, then allow for unlisted paths
// Pure; callers handle the unauthenticated case for non-public paths
func (rs *RuleSet) Decide(path string, p *Principal) Decision {
	path = normalizePath(path)

	if _, ok := rs.public[path]; ok {
		return Decision{Allowed: true}
	}

	if _, ok := rs.authOnly[path]; ok {
		switch {
		case !p.Resolved():
			return Decision{RedirectTo: rs.paywall, Message: MsgSubscriptionRequired}
		case !p.Active():
			return Decision{RedirectTo: rs.paywall, Message: MsgSubscriptionInactive}
		}
		return Decision{Allowed: true}
	}

	if r, ok := rs.tierFor(path); ok {
		switch {
		case !p.Resolved():
			return Decision{RedirectTo: rs.paywall, Message: MsgFeatureRequiresPlan}
		case !p.Active():
			return Decision{RedirectTo: rs.paywall, Message: MsgSubscriptionInactive}
		case !HasAccess(p.Tier, r.MinTier):
			return Decision{Message: InsufficientTierMessage(r.MinTier)}
		}
		return Decision{Allowed: true}
	}

	return Decision{Allowed: true}
}
