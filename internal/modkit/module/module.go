// Package module holds the bootstrap contract and the port registry used by the API root
package module

import (
	phttp "storefront/internal/platform/net/http"
)

// Module is the contract the composition root relies on
// It mirrors modkit.Module so packages that export their own Ports type avoid an import cycle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
