package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultAsyncTimeout bounds a single queued write
const DefaultAsyncTimeout = 2 * time.Second

// ErrStoreClosed is returned by Load after Close
var ErrStoreClosed = errors.New("session store closed")

const asyncQueueSize = 32

type storeOp struct {
	save  *Snapshot
	clear bool
	load  chan<- loadResult
}

type loadResult struct {
	data []byte
	err  error
}

// AsyncStore moves store I/O onto its own goroutine. Save and Clear return
// as soon as the operation is queued; operations run in the order they were
// queued, so a Load observes every write queued before it.
type AsyncStore struct {
	inner   Store
	timeout time.Duration
	log     *zap.Logger

	ops  chan storeOp
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncStore starts the worker for inner. Call Close to flush it.
func NewAsyncStore(inner Store, timeout time.Duration, log *zap.Logger) *AsyncStore {
	if timeout <= 0 {
		timeout = DefaultAsyncTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &AsyncStore{
		inner:   inner,
		timeout: timeout,
		log:     log,
		ops:     make(chan storeOp, asyncQueueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AsyncStore) run() {
	defer close(s.done)
	for op := range s.ops {
		s.apply(op)
	}
}

func (s *AsyncStore) apply(op storeOp) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	switch {
	case op.load != nil:
		data, err := s.inner.Load(ctx)
		op.load <- loadResult{data: data, err: err}
	case op.save != nil:
		if err := s.inner.Save(ctx, *op.save); err != nil {
			s.log.Warn("session snapshot not saved", zap.Error(err))
		}
	case op.clear:
		if err := s.inner.Clear(ctx); err != nil {
			s.log.Warn("session snapshot not cleared", zap.Error(err))
		}
	}
}

// enqueue hands op to the worker without blocking. A full queue drops the
// write; the next save carries the complete state anyway.
func (s *AsyncStore) enqueue(op storeOp) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ops <- op:
		return true
	default:
		return false
	}
}

// Save queues the snapshot for writing
func (s *AsyncStore) Save(_ context.Context, snap Snapshot) error {
	if !s.enqueue(storeOp{save: &snap}) {
		s.log.Warn("session save dropped", zap.String("session", snap.SessionID))
	}
	return nil
}

// Clear queues removal of the snapshot
func (s *AsyncStore) Clear(_ context.Context) error {
	if !s.enqueue(storeOp{clear: true}) {
		s.log.Warn("session clear dropped")
	}
	return nil
}

// Load waits for queued writes and then reads the snapshot
func (s *AsyncStore) Load(ctx context.Context) ([]byte, error) {
	result := make(chan loadResult, 1)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	select {
	case s.ops <- storeOp{load: result}:
	case <-ctx.Done():
		s.mu.RUnlock()
		return nil, ctx.Err()
	}
	s.mu.RUnlock()

	select {
	case r := <-result:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting operations and waits for queued ones to finish
func (s *AsyncStore) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ops)
	}
	s.mu.Unlock()
	<-s.done
}
