package module

import dom "storefront/internal/services/principal/domain"

// Ports holds the ports exposed by the principal module
type Ports struct {
	Lookup dom.LookupPort
	Writer dom.WriterPort
}
