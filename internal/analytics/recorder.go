package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Inserter stores events.
type Inserter interface {
	Insert(ctx context.Context, e Event) error
}

// Recorder queues events and writes them from a single goroutine, so tab
// change callbacks never wait on the database. Events are dropped when the
// queue is full.
type Recorder struct {
	store  Inserter
	logger *slog.Logger
	queue  chan Event

	mu      sync.Mutex
	dropped int
}

// NewRecorder creates a recorder with room for size pending events.
func NewRecorder(store Inserter, size int, logger *slog.Logger) *Recorder {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{
		store:  store,
		logger: logger,
		queue:  make(chan Event, size),
	}
}

// Record queues e without blocking.
func (r *Recorder) Record(e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	select {
	case r.queue <- e:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		r.logger.Warn("analytics queue full, dropping event", slog.String("page", e.Page), slog.String("tab", e.Tab))
	}
}

// OnTabChange returns a tab change callback that records selections of the
// given group.
func (r *Recorder) OnTabChange(page, group string) func(string) {
	return func(tab string) {
		r.Record(Event{Page: page, Group: group, Tab: tab})
	}
}

// Dropped returns the number of events dropped so far.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Run writes queued events until ctx is done, then drains what is left.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case e := <-r.queue:
			r.write(ctx, e)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		select {
		case e := <-r.queue:
			r.write(ctx, e)
		default:
			return
		}
	}
}

func (r *Recorder) write(ctx context.Context, e Event) {
	if err := r.store.Insert(ctx, e); err != nil {
		r.logger.Error("failed to record tab event", "error", err)
	}
}
