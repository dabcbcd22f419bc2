package net_test

import (
	"context"
	"testing"

	pnet "storefront/internal/platform/net"
)

func TestContextGetters(t *testing.T) {
	t.Parallel()
	base := context.Background()

	t.Run("request id and subject", func(t *testing.T) {
		ctx := pnet.WithSubject(pnet.WithRequestID(base, "req-123"), "sub-abc")
		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
		if got := pnet.SubjectID(ctx); got != "sub-abc" {
			t.Fatalf("SubjectID got %q want %q", got, "sub-abc")
		}
	})

	t.Run("empty values leave ctx unchanged", func(t *testing.T) {
		ctx := pnet.WithSubject(pnet.WithRequestID(base, ""), "")
		if ctx != base {
			t.Fatalf("expected ctx to be unchanged when ids empty")
		}
		if pnet.RequestID(ctx) != "" || pnet.SubjectID(ctx) != "" {
			t.Fatalf("expected empty getters")
		}
	})
}
