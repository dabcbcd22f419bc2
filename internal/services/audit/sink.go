package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
)

// Inserter is the batch write the sink needs; store.Clickhouse satisfies it
type Inserter interface {
	Insert(ctx context.Context, table string, rows [][]any) error
}

// SinkOptions tunes batching
type SinkOptions struct {
	Table      string        // default access_denials
	BatchSize  int           // rows per insert, default 500
	FlushEvery time.Duration // max time an event waits, default 2s
	Buffer     int           // queued events before Record drops, default 4096
}

// Sink batches events into clickhouse from a single flusher goroutine
type Sink struct {
	ins  Inserter
	opt  SinkOptions
	in   chan Event
	done chan struct{}
	once sync.Once
	now  func() time.Time
}

var _ Recorder = (*Sink)(nil)

// NewSink starts the flusher; call Close to drain it
func NewSink(ins Inserter, opt SinkOptions) *Sink {
	if ins == nil {
		panic("audit: NewSink requires an inserter")
	}
	if opt.Table == "" {
		opt.Table = "access_denials"
	}
	if opt.BatchSize <= 0 {
		opt.BatchSize = 500
	}
	if opt.FlushEvery <= 0 {
		opt.FlushEvery = 2 * time.Second
	}
	if opt.Buffer <= 0 {
		opt.Buffer = 4096
	}
	s := &Sink{
		ins:  ins,
		opt:  opt,
		in:   make(chan Event, opt.Buffer),
		done: make(chan struct{}),
		now:  time.Now,
	}
	go s.run()
	return s
}

// Record queues e; when the buffer is full the event is dropped and counted
func (s *Sink) Record(ctx context.Context, e Event) {
	e = fill(ctx, e, s.now())
	select {
	case s.in <- e:
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	}
}

// Close stops intake, flushes what is queued and waits for the flusher or ctx
// Record must not be called after Close
func (s *Sink) Close(ctx context.Context) error {
	s.once.Do(func() { close(s.in) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit: flush interrupted"), ctx.Err())
	}
}

func (s *Sink) run() {
	defer close(s.done)
	log := logger.Named("audit-sink")
	ticker := time.NewTicker(s.opt.FlushEvery)
	defer ticker.Stop()

	batch := make([][]any, 0, s.opt.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := s.ins.Insert(ctx, s.opt.Table, batch)
		cancel()
		if err != nil {
			log.Error().Err(err).Int("rows", len(batch)).Msg("audit insert failed")
			metrics.AuditEventsTotal.WithLabelValues("failed").Add(float64(len(batch)))
		} else {
			metrics.AuditEventsTotal.WithLabelValues("written").Add(float64(len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case e, ok := <-s.in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e.row())
			if len(batch) >= s.opt.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
