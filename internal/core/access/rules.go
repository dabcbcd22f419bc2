package access

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultPaywall is where subscription denials send the browser
const DefaultPaywall = "/pricing"

// Kind classifies a route rule
type Kind uint8

const (
	// KindPublic allows anyone, exact path match
	KindPublic Kind = iota + 1
	// KindAuthOnly requires a resolved principal, exact path match
	KindAuthOnly
	// KindTier requires an active subscription at or above MinTier, exact or segment prefix match
	KindTier
)

func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindAuthOnly:
		return "auth"
	case KindTier:
		return "tier"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Rule is one entry of the route table
type Rule struct {
	Path    string
	Kind    Kind
	MinTier Tier
}

// Public builds public rules
func Public(paths ...string) []Rule {
	out := make([]Rule, 0, len(paths))
	for _, p := range paths {
		out = append(out, Rule{Path: p, Kind: KindPublic})
	}
	return out
}

// AuthOnly builds auth-only rules
func AuthOnly(paths ...string) []Rule {
	out := make([]Rule, 0, len(paths))
	for _, p := range paths {
		out = append(out, Rule{Path: p, Kind: KindAuthOnly})
	}
	return out
}

// MinTier builds tier-gated rules
func MinTier(t Tier, paths ...string) []Rule {
	out := make([]Rule, 0, len(paths))
	for _, p := range paths {
		out = append(out, Rule{Path: p, Kind: KindTier, MinTier: t})
	}
	return out
}

// RuleSet is an immutable, validated route table
// Safe for concurrent use
type RuleSet struct {
	public   map[string]struct{}
	authOnly map[string]struct{}
	tiers    []Rule // longest path first
	paywall  string
}

// Option configures a RuleSet
type Option func(*RuleSet)

// WithPaywall overrides the redirect target for subscription denials
func WithPaywall(path string) Option {
	return func(rs *RuleSet) {
		if path != "" {
			rs.paywall = path
		}
	}
}

// NewRuleSet validates rules and builds the lookup table
// Paths must be absolute and appear once; tier rules need a known tier
func NewRuleSet(rules []Rule, opts ...Option) (*RuleSet, error) {
	rs := &RuleSet{
		public:   map[string]struct{}{},
		authOnly: map[string]struct{}{},
		paywall:  DefaultPaywall,
	}
	for _, o := range opts {
		o(rs)
	}

	seen := make(map[string]Kind, len(rules))
	for _, r := range rules {
		p := normalizePath(r.Path)
		if !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("access: rule path %q must start with /", r.Path)
		}
		if k, dup := seen[p]; dup {
			return nil, fmt.Errorf("access: path %q listed twice (%s, %s)", p, k, r.Kind)
		}
		seen[p] = r.Kind

		switch r.Kind {
		case KindPublic:
			rs.public[p] = struct{}{}
		case KindAuthOnly:
			rs.authOnly[p] = struct{}{}
		case KindTier:
			if !r.MinTier.Known() {
				return nil, fmt.Errorf("access: path %q has unknown tier %q", p, r.MinTier)
			}
			rs.tiers = append(rs.tiers, Rule{Path: p, Kind: KindTier, MinTier: r.MinTier})
		default:
			return nil, fmt.Errorf("access: path %q has invalid kind %s", p, r.Kind)
		}
	}
	sort.SliceStable(rs.tiers, func(i, j int) bool {
		return len(rs.tiers[i].Path) > len(rs.tiers[j].Path)
	})
	return rs, nil
}

// MustRuleSet is NewRuleSet that panics, for static tables
func MustRuleSet(rules []Rule, opts ...Option) *RuleSet {
	rs, err := NewRuleSet(rules, opts...)
	if err != nil {
		panic(err)
	}
	return rs
}

// DefaultRules is the storefront route table
func DefaultRules() []Rule {
	var out []Rule
	out = append(out, Public("/", "/pricing", "/contact", "/about", "/login", "/signup", "/privacy", "/terms")...)
	out = append(out, AuthOnly("/dashboard", "/account", "/account/billing")...)
	out = append(out, MinTier(TierGrowth, "/dashboard/analytics", "/dashboard/campaigns")...)
	out = append(out, MinTier(TierPartner, "/dashboard/brand-deals", "/dashboard/api-access")...)
	return out
}

// Paywall returns the configured subscription redirect
func (rs *RuleSet) Paywall() string { return rs.paywall }

// Rules returns a copy of the table, public and auth-only paths sorted, tiers longest first
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, 0, len(rs.public)+len(rs.authOnly)+len(rs.tiers))
	out = append(out, Public(sortedKeys(rs.public)...)...)
	out = append(out, AuthOnly(sortedKeys(rs.authOnly)...)...)
	out = append(out, rs.tiers...)
	return out
}

// tierFor returns the longest tier rule matching path exactly or at a segment boundary
func (rs *RuleSet) tierFor(path string) (Rule, bool) {
	for _, r := range rs.tiers {
		if path == r.Path || strings.HasPrefix(path, r.Path+"/") {
			return r, true
		}
	}
	return Rule{}, false
}

// normalizePath drops a single trailing slash except on the root
func normalizePath(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
