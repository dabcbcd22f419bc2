// Package domain holds DTOs and ports for the entitlement endpoints
package domain

import (
	"context"

	"storefront/internal/core/access"
)

// DecisionOutput answers "may the caller open path"
type DecisionOutput struct {
	Path       string `json:"path"                  example:"/dashboard/analytics"`
	Allowed    bool   `json:"allowed"               example:"false"`
	RedirectTo string `json:"redirect_to,omitempty" example:"/pricing"`
	Message    string `json:"message,omitempty"     example:"Subscription required for this feature."`
}

// RuleOutput is one row of the route table
type RuleOutput struct {
	Path    string `json:"path"               example:"/dashboard/brand-deals"`
	Kind    string `json:"kind"               example:"tier"`
	MinTier string `json:"min_tier,omitempty" example:"partner"`
}

// MeOutput is the caller as far as it could be resolved
type MeOutput struct {
	SubjectID string `json:"subject_id"       example:"3f1e9a2c-0000-4000-8000-000000000001"`
	Tier      string `json:"tier,omitempty"   example:"growth"`
	Status    string `json:"status,omitempty" example:"active"`
	Role      string `json:"role"             example:"user"`
	Resolved  bool   `json:"resolved"         example:"true"`
}

// SubscriptionOutput describes an active subscription and what it unlocks
type SubscriptionOutput struct {
	Tier     string   `json:"tier"     example:"growth"`
	Title    string   `json:"title"    example:"Growth"`
	Status   string   `json:"status"   example:"active"`
	Unlocked []string `json:"unlocked" example:"/dashboard/analytics,/dashboard/campaigns"`
}

// BrandDeal is a partner programme offer
type BrandDeal struct {
	ID          string `json:"id"          example:"bd_spring_launch"`
	Brand       string `json:"brand"       example:"Northwind"`
	Title       string `json:"title"       example:"Spring launch bundle"`
	Commission  int    `json:"commission"  example:"18"`
	Description string `json:"description" example:"Feature the spring range for a boosted commission"`
}

// ServicePort is the entitlement read model
type ServicePort interface {
	Decide(path string, p *access.Principal) DecisionOutput
	Rules() []RuleOutput
	Subscription(p *access.Principal) SubscriptionOutput
	BrandDeals(ctx context.Context) ([]BrandDeal, error)
}
