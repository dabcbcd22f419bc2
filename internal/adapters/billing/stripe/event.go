package stripe

import (
	"encoding/json"
	"fmt"

	"storefront/internal/core/access"

	stripego "github.com/stripe/stripe-go/v82"
)

// Subscription lifecycle events the storefront reacts to
const (
	EventSubscriptionCreated = stripego.EventTypeCustomerSubscriptionCreated
	EventSubscriptionUpdated = stripego.EventTypeCustomerSubscriptionUpdated
	EventSubscriptionDeleted = stripego.EventTypeCustomerSubscriptionDeleted
)

// Event is a verified webhook envelope
type Event struct{ stripego.Event }

// IsSubscriptionEvent reports whether e carries a subscription object
func (e Event) IsSubscriptionEvent() bool {
	switch e.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		return true
	}
	return false
}

// Deleted reports whether e ends the subscription
func (e Event) Deleted() bool { return e.Type == EventSubscriptionDeleted }

// Subscription decodes the data object as a subscription
func (e Event) Subscription() (Subscription, error) {
	var s Subscription
	if e.Data == nil || len(e.Data.Raw) == 0 {
		return s, fmt.Errorf("%w: event without data object", ErrMalformedEvent)
	}
	if err := json.Unmarshal(e.Data.Raw, &s.Subscription); err != nil {
		return Subscription{}, fmt.Errorf("stripe: decode subscription: %w", err)
	}
	return s, nil
}

// Subscription reads the storefront's view of a provider subscription
type Subscription struct{ stripego.Subscription }

// SubjectID is the storefront subject stamped into the subscription metadata at checkout
func (s Subscription) SubjectID() string { return s.Metadata["subject_id"] }

// CustomerID is the provider customer, empty when the object carries none
func (s Subscription) CustomerID() string {
	if s.Customer == nil {
		return ""
	}
	return s.Customer.ID
}

// Tier resolves the plan from metadata, then from the first price lookup key
func (s Subscription) Tier() (access.Tier, bool) {
	if t, ok := access.ParseTier(s.Metadata["tier"]); ok {
		return t, true
	}
	if s.Items == nil {
		return "", false
	}
	for _, it := range s.Items.Data {
		if it == nil || it.Price == nil {
			continue
		}
		if t, ok := access.ParseTier(it.Price.LookupKey); ok {
			return t, true
		}
	}
	return "", false
}

// AccessStatus maps the provider status onto ours
// Trials count as active; anything awaiting payment is suspended
func (s Subscription) AccessStatus(deleted bool) access.Status {
	if deleted {
		return access.StatusCancelled
	}
	switch s.Status {
	case stripego.SubscriptionStatusActive, stripego.SubscriptionStatusTrialing:
		return access.StatusActive
	case stripego.SubscriptionStatusCanceled:
		return access.StatusCancelled
	default:
		return access.StatusSuspended
	}
}
