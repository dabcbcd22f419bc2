package httpkit

import "storefront/internal/core/access"

// Protected groups routes behind bearer auth
func Protected(r Router, p *Port, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}

// Entitled groups routes behind an active subscription at or above tier
func Entitled(r Router, p *Port, tier access.Tier, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RequireTier(p, tier))
		fn(gr)
	})
}

// Privileged groups routes behind a stored role at or above role
func Privileged(r Router, p *Port, role access.Role, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RequireRole(p, role))
		fn(gr)
	})
}
