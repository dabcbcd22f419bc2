// Package domain holds DTOs and ports for inbound billing webhooks
package domain

import "context"

// Outcome values reported back to the provider
const (
	OutcomeApplied   = "applied"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

// Result is the webhook acknowledgement body
type Result struct {
	EventID   string `json:"event_id"             example:"evt_1P2x"`
	Outcome   string `json:"outcome"              example:"applied"`
	SubjectID string `json:"subject_id,omitempty" example:"3f1e9a2c-0000-4000-8000-000000000001"`
	Reason    string `json:"reason,omitempty"     example:"unknown tier"`
}

// EventRepo remembers delivered event ids
type EventRepo interface {
	// Record stores id; first is false when it was already stored
	Record(ctx context.Context, id, kind string) (first bool, err error)
}

// ServicePort processes signed provider payloads
type ServicePort interface {
	HandleStripe(ctx context.Context, payload []byte, signature string) (Result, error)
}
