package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// fakePG satisfies TxRunner and Pinger
type fakePG struct {
	RowQuerier
	pingErr error
	closed  bool
}

func (f *fakePG) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }
func (f *fakePG) Ping(context.Context) error                                { return f.pingErr }
func (f *fakePG) Close() error                                              { f.closed = true; return nil }

// fakeCH satisfies Clickhouse and Pinger
type fakeCH struct {
	Clickhouse
	pingErr  error
	closeErr error
}

func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { return f.closeErr }

func TestGuard_NilStore(t *testing.T) {
	t.Parallel()
	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should return error")
	}
}

func TestGuard_NoSeams(t *testing.T) {
	t.Parallel()
	if err := (&Store{}).Guard(context.Background()); err != nil {
		t.Fatalf("empty store should be healthy, got %v", err)
	}
}

func TestGuard_JoinsFailures(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	s := &Store{
		PG:    &fakePG{pingErr: errors.New("pg down")},
		CH:    &fakeCH{pingErr: errors.New("ch down")},
		Redis: rc,
	}
	mr.SetError("LOADING")

	err := s.Guard(context.Background())
	if err == nil {
		t.Fatalf("expected joined error")
	}
	for _, want := range []string{"pg: pg down", "ch: ch down", "redis:"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("guard error %q missing %q", err, want)
		}
	}

	mr.SetError("")
	s.PG = &fakePG{}
	s.CH = &fakeCH{}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("healthy store reported %v", err)
	}
}

func TestClose_AllBackends(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	pg := &fakePG{}
	s := &Store{
		PG:    pg,
		CH:    &fakeCH{closeErr: errors.New("ch close")},
		Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	err := s.Close(context.Background())
	if err == nil || !strings.Contains(err.Error(), "ch close") {
		t.Fatalf("want ch close error, got %v", err)
	}
	if !pg.closed {
		t.Fatalf("pg should be closed even when ch fails")
	}
}
