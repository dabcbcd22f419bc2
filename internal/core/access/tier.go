// Package access holds the storefront entitlement model: ordered tiers and roles,
// the principal resolved per request, and the route access decision table
package access

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rank bounds shared by tiers and roles
const (
	// RankUnknown ranks an unrecognized actual level below every requirement
	RankUnknown = 0
	// RankUnsatisfiable ranks an unrecognized requirement above every level
	RankUnsatisfiable = 999
)

// Tier is an ordered subscription level
type Tier string

const (
	TierLite    Tier = "lite"
	TierGrowth  Tier = "growth"
	TierPartner Tier = "partner"

	// TierAny is the requirement sentinel meaning any active subscription
	TierAny Tier = "any"
)

// Tiers lists the subscription levels in ascending order
var Tiers = []Tier{TierLite, TierGrowth, TierPartner}

// Rank returns the tier's position; unknown tiers (including TierAny) are RankUnknown
func (t Tier) Rank() int {
	switch t {
	case TierLite:
		return 1
	case TierGrowth:
		return 2
	case TierPartner:
		return 3
	default:
		return RankUnknown
	}
}

// Known reports whether t is one of the subscription levels
func (t Tier) Known() bool { return t.Rank() != RankUnknown }

// Title renders the tier for user facing messages, e.g. "Partner"
func (t Tier) Title() string {
	return cases.Title(language.English).String(string(t))
}

// requiredRank ranks a requirement; unknown requirements can never be met
func (t Tier) requiredRank() int {
	if !t.Known() {
		return RankUnsatisfiable
	}
	return t.Rank()
}

// HasAccess reports whether actual meets required
// Unknown actual ranks 0, unknown required ranks 999, so both fail closed
func HasAccess(actual, required Tier) bool {
	return actual.Rank() >= required.requiredRank()
}

// ParseTier normalizes s (trim, lower case) and reports whether it names a tier
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Known()
}
