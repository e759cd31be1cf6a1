package drive

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrClosed   = errors.New("drive: queue is closed")
	ErrOverflow = errors.New("drive: push exceeds queue limit")
)

// Queue is the driver's input buffer: producers push step inputs, the
// runner pulls them in batches. A limit of 0 means unbounded; otherwise
// Push blocks until there is room. After Close, pulls drain what is left
// and then report ErrClosed.
type Queue[T any] struct {
	mu        sync.Mutex
	buf       []T
	limit     int
	closed    bool
	waitSpace chan struct{}
	waitItems chan struct{}
}

func NewQueue[T any](limit int) *Queue[T] {
	return &Queue[T]{limit: limit}
}

// wake releases every waiter on the given side.
func wake(ch *chan struct{}) {
	if *ch != nil {
		close(*ch)
		*ch = nil
	}
}

func await(ch *chan struct{}) chan struct{} {
	if *ch == nil {
		*ch = make(chan struct{})
	}
	return *ch
}

// Push appends inputs, blocking while the queue is over its limit.
func (q *Queue[T]) Push(ctx context.Context, vals ...T) error {
	if q.limit > 0 && len(vals) > q.limit {
		return ErrOverflow
	}
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrClosed
		}
		if q.limit == 0 || len(q.buf)+len(vals) <= q.limit {
			q.buf = append(q.buf, vals...)
			wake(&q.waitItems)
			q.mu.Unlock()
			return nil
		}
		ch := await(&q.waitSpace)
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// Pull removes up to max buffered inputs (all of them when max is 0),
// blocking while the queue is empty and not yet closed.
func (q *Queue[T]) Pull(ctx context.Context, max int) ([]T, error) {
	for {
		q.mu.Lock()
		if len(q.buf) > 0 {
			n := len(q.buf)
			if max > 0 && n > max {
				n = max
			}
			out := make([]T, n)
			copy(out, q.buf)
			q.buf = append(q.buf[:0], q.buf[n:]...)
			wake(&q.waitSpace)
			q.mu.Unlock()
			return out, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrClosed
		}
		ch := await(&q.waitItems)
		q.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
		}
	}
}

// Len reports the number of buffered inputs.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Close stops the queue: pushes fail immediately, pulls drain the rest.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	wake(&q.waitSpace)
	wake(&q.waitItems)
	q.mu.Unlock()
}
