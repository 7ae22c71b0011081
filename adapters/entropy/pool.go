package entropy

import (
	"context"
	"sync"

	"goentropy/domain/core"
)

// Pool defaults
const (
	DefaultPoolCapacity = 1 << 20
	DefaultPoolMaxBatch = 4096
)

// Pool buffers externally fed entropy in arrival order. Safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	buf      []byte
	capacity int
	maxBatch int
}

// NewPool creates a pool holding at most capacity bytes, fed at most
// maxBatch bytes at a time
func NewPool(capacity, maxBatch int) *Pool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	if maxBatch <= 0 {
		maxBatch = DefaultPoolMaxBatch
	}
	return &Pool{capacity: capacity, maxBatch: maxBatch}
}

// Feed appends batch and returns the number of buffered bytes afterwards.
// A batch that would exceed the batch limit or the capacity is rejected whole.
func (p *Pool) Feed(ctx context.Context, batch []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, core.NewEmptyInputError("entropy batch")
	}
	if len(batch) > p.maxBatch {
		return 0, core.NewPoolOverflowError(len(batch), p.maxBatch)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.buf)+len(batch) > p.capacity {
		return len(p.buf), core.NewPoolOverflowError(len(batch), p.capacity-len(p.buf))
	}
	p.buf = append(p.buf, batch...)
	return len(p.buf), nil
}

// Take removes and returns the oldest n bytes
func (p *Pool) Take(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, core.NewInvalidParameterError("n", "must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if n > len(p.buf) {
		return nil, core.NewInsufficientEntropyError(n, len(p.buf))
	}

	out := make([]byte, n)
	copy(out, p.buf[:n])
	p.buf = append(p.buf[:0], p.buf[n:]...)
	return out, nil
}

// Available returns the number of buffered bytes
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buf)
}

// Capacity returns the maximum number of buffered bytes
func (p *Pool) Capacity() int {
	return p.capacity
}

// MaxBatch returns the largest accepted feed
func (p *Pool) MaxBatch() int {
	return p.maxBatch
}
