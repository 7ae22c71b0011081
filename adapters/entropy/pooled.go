package entropy

import (
	"context"
	"errors"

	"goentropy/domain/core"
	"goentropy/ports"
)

// Reading is raw entropy together with the source that produced it
type Reading struct {
	Bytes  []byte
	Origin string
}

// PooledSource serves from the entropy pool first and falls back to another
// source when the pool is short, unless the pool is required.
type PooledSource struct {
	pool        ports.EntropyPool
	fallback    ports.EntropySource
	requirePool bool
}

// NewPooledSource creates a pool-first source
func NewPooledSource(pool ports.EntropyPool, fallback ports.EntropySource, requirePool bool) *PooledSource {
	return &PooledSource{pool: pool, fallback: fallback, requirePool: requirePool}
}

// Name identifies the source in processing steps
func (s *PooledSource) Name() string {
	return "entropy pool"
}

// Read implements ports.EntropySource
func (s *PooledSource) Read(ctx context.Context, n int) ([]byte, error) {
	r, err := s.ReadWithOrigin(ctx, n)
	if err != nil {
		return nil, err
	}
	return r.Bytes, nil
}

// ReadWithOrigin reads n bytes and reports which source served them
func (s *PooledSource) ReadWithOrigin(ctx context.Context, n int) (*Reading, error) {
	b, err := s.pool.Take(ctx, n)
	if err == nil {
		return &Reading{Bytes: b, Origin: s.Name()}, nil
	}
	if !errors.Is(err, core.ErrInsufficientEntropy) || s.requirePool || s.fallback == nil {
		return nil, err
	}

	b, err = s.fallback.Read(ctx, n)
	if err != nil {
		return nil, err
	}
	return &Reading{Bytes: b, Origin: s.fallback.Name()}, nil
}
