package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	pnet "storefront/internal/platform/net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memInserter struct {
	mu      sync.Mutex
	table   string
	batches [][][]any
	err     error
	block   chan struct{}
}

func (m *memInserter) Insert(_ context.Context, table string, rows [][]any) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = table
	cp := append([][]any(nil), rows...)
	m.batches = append(m.batches, cp)
	return m.err
}

func (m *memInserter) rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestSink_FlushesOnBatchSize(t *testing.T) {
	t.Parallel()
	ins := &memInserter{}
	s := NewSink(ins, SinkOptions{BatchSize: 2, FlushEvery: time.Hour})

	for range 4 {
		s.Record(context.Background(), Event{Kind: KindCSRF, Path: "/api/v1/contact"})
	}
	require.Eventually(t, func() bool { return ins.rows() == 4 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, "access_denials", ins.table)
	assert.Len(t, ins.batches, 2)
}

func TestSink_FlushesOnTickAndClose(t *testing.T) {
	t.Parallel()
	ins := &memInserter{}
	s := NewSink(ins, SinkOptions{BatchSize: 100, FlushEvery: 10 * time.Millisecond, Table: "denials_test"})

	s.Record(context.Background(), Event{Kind: KindRoute})
	require.Eventually(t, func() bool { return ins.rows() == 1 }, time.Second, 5*time.Millisecond)

	s.Record(context.Background(), Event{Kind: KindRoute})
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 2, ins.rows())
	assert.Equal(t, "denials_test", ins.table)

	// second close is harmless
	require.NoError(t, s.Close(context.Background()))
}

func TestSink_InsertErrorDoesNotStopFlusher(t *testing.T) {
	t.Parallel()
	ins := &memInserter{err: errors.New("ch down")}
	s := NewSink(ins, SinkOptions{BatchSize: 1})
	s.Record(context.Background(), Event{Kind: KindOrigin})
	s.Record(context.Background(), Event{Kind: KindOrigin})
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 2, ins.rows())
}

func TestSink_DropsWhenFull(t *testing.T) {
	t.Parallel()
	ins := &memInserter{block: make(chan struct{})}
	s := NewSink(ins, SinkOptions{BatchSize: 1, Buffer: 1})

	// first event parks the flusher inside Insert, the rest overflow the buffer
	for range 10 {
		s.Record(context.Background(), Event{Kind: KindAuth})
	}
	close(ins.block)
	require.NoError(t, s.Close(context.Background()))
	assert.Less(t, ins.rows(), 10)
}

func TestSink_CloseHonoursContext(t *testing.T) {
	t.Parallel()
	ins := &memInserter{block: make(chan struct{})}
	s := NewSink(ins, SinkOptions{BatchSize: 1})
	s.Record(context.Background(), Event{Kind: KindAuth})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Close(ctx), context.DeadlineExceeded)
	close(ins.block)
}

func TestFill(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := pnet.WithSubject(pnet.WithRequestID(context.Background(), "req-1"), "sub-1")

	e := fill(ctx, Event{Kind: KindRoute, Path: "/dashboard"}, now)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, now, e.At)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "sub-1", e.SubjectID)

	row := e.row()
	require.Len(t, row, 7)
	assert.Equal(t, "route", row[2])

	kept := fill(ctx, Event{SubjectID: "explicit"}, now)
	assert.Equal(t, "explicit", kept.SubjectID)
}

func TestNop(t *testing.T) {
	t.Parallel()
	var r Recorder = Nop{}
	r.Record(context.Background(), Event{})
	assert.NoError(t, r.Close(context.Background()))
}
