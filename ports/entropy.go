package ports

import (
	"context"
)

// EntropySource supplies raw bytes for seed derivation
type EntropySource interface {
	// Name identifies the source in processing-step trails
	Name() string

	// Read returns exactly n fresh bytes or an error
	Read(ctx context.Context, n int) ([]byte, error)
}

// EntropyPool accumulates externally collected entropy until it is consumed
type EntropyPool interface {
	// Feed appends a batch of bytes to the pool
	Feed(ctx context.Context, batch []byte) (int, error)

	// Take removes and returns the oldest n bytes
	Take(ctx context.Context, n int) ([]byte, error)

	// Available returns the number of buffered bytes
	Available() int
}
