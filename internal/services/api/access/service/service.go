// Package service answers entitlement questions against the route table
package service

import (
	"context"
	"sort"
	"strings"

	"storefront/internal/core/access"
	"storefront/internal/services/api/access/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	rules *access.RuleSet
	deals []domain.BrandDeal
}

// New creates the service over rules
func New(rules *access.RuleSet) *Svc {
	if rules == nil {
		panic("access.Service requires a rule set")
	}
	return &Svc{rules: rules, deals: sampleDeals}
}

// Decide runs the table for path; p may be nil
func (s *Svc) Decide(path string, p *access.Principal) domain.DecisionOutput {
	path = strings.TrimSpace(path)
	d := s.rules.Decide(path, p)
	return domain.DecisionOutput{
		Path:       path,
		Allowed:    d.Allowed,
		RedirectTo: d.RedirectTo,
		Message:    d.Message,
	}
}

// Rules lists the table
func (s *Svc) Rules() []domain.RuleOutput {
	rs := s.rules.Rules()
	out := make([]domain.RuleOutput, 0, len(rs))
	for _, r := range rs {
		out = append(out, domain.RuleOutput{Path: r.Path, Kind: r.Kind.String(), MinTier: string(r.MinTier)})
	}
	return out
}

// Subscription describes p's plan; gated paths reachable at p's tier are listed as unlocked
func (s *Svc) Subscription(p *access.Principal) domain.SubscriptionOutput {
	out := domain.SubscriptionOutput{Unlocked: []string{}}
	if p == nil {
		return out
	}
	out.Tier, out.Title, out.Status = string(p.Tier), p.Tier.Title(), string(p.Status)
	for _, r := range s.rules.Rules() {
		if r.Kind == access.KindTier && access.HasAccess(p.Tier, r.MinTier) {
			out.Unlocked = append(out.Unlocked, r.Path)
		}
	}
	sort.Strings(out.Unlocked)
	return out
}

// BrandDeals returns the partner offers
func (s *Svc) BrandDeals(context.Context) ([]domain.BrandDeal, error) {
	return append([]domain.BrandDeal(nil), s.deals...), nil
}

var sampleDeals = []domain.BrandDeal{
	{ID: "bd_spring_launch", Brand: "Northwind", Title: "Spring launch bundle", Commission: 18,
		Description: "Feature the spring range for a boosted commission"},
	{ID: "bd_creator_kit", Brand: "Contoso Audio", Title: "Creator kit seeding", Commission: 12,
		Description: "Free kit for review content plus affiliate share"},
	{ID: "bd_holiday", Brand: "Fabrikam Home", Title: "Holiday gift guide", Commission: 15,
		Description: "Placement in the partner gift guide newsletter"},
}
