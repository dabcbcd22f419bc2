package modkit

import (
	phttp "storefront/internal/platform/net/http"
)

// Module is what the API composition root mounts
// contact, access, webhooks and the rest all satisfy it through Base
type Module interface {
	// MountRoutes attaches the module under its prefix on r
	MountRoutes(r phttp.Router)
	// Ports returns the port bundle other modules may consume, nil when none
	Ports() any
	// Name is the registry key
	Name() string
}

// Builder is the constructor shape modules export as New
type Builder func(Deps, ...Option) Module
