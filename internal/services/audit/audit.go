// Package audit records denied requests for later review
package audit

import (
	"context"
	"time"

	pnet "storefront/internal/platform/net"

	"github.com/google/uuid"
)

// Kind classifies a denial
type Kind string

const (
	KindRoute  Kind = "route"
	KindCSRF   Kind = "csrf"
	KindOrigin Kind = "origin"
	KindAuth   Kind = "auth"
)

// Event is one denied request
type Event struct {
	ID        uuid.UUID
	At        time.Time
	Kind      Kind
	Path      string
	SubjectID string
	Reason    string
	RequestID string
}

// Recorder accepts denial events; Record never blocks the request path
type Recorder interface {
	Record(ctx context.Context, e Event)
	Close(ctx context.Context) error
}

// Nop discards everything, used when clickhouse is disabled
type Nop struct{}

func (Nop) Record(context.Context, Event) {}
func (Nop) Close(context.Context) error   { return nil }

// fill stamps the id, time, request id and subject when the caller left them out
func fill(ctx context.Context, e Event, now time.Time) Event {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = now
	}
	if e.RequestID == "" {
		e.RequestID = pnet.RequestID(ctx)
	}
	if e.SubjectID == "" {
		e.SubjectID = pnet.SubjectID(ctx)
	}
	return e
}

func (e Event) row() []any {
	return []any{e.ID, e.At.UTC(), string(e.Kind), e.Path, e.SubjectID, e.Reason, e.RequestID}
}
