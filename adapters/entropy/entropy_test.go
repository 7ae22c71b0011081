package entropy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"goentropy/domain/core"
	"goentropy/internal/testkit"
	"goentropy/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.EntropySource = (*CryptoSource)(nil)
	_ ports.EntropySource = (*PooledSource)(nil)
	_ ports.EntropyPool   = (*Pool)(nil)
)

func TestCryptoSource_Read(t *testing.T) {
	src := NewCryptoSource()
	ctx := context.Background()

	a, err := src.Read(ctx, 32)
	require.NoError(t, err)
	b, err := src.Read(ctx, 32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)

	_, err = src.Read(ctx, 0)
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
}

func TestCryptoSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCryptoSource().Read(ctx, 8)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_FeedAndTakeInOrder(t *testing.T) {
	ctx := context.Background()
	p := NewPool(64, 16)

	total, err := p.Feed(ctx, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	total, err = p.Feed(ctx, []byte{4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	got, err := p.Take(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
	assert.Equal(t, 1, p.Available())
}

func TestPool_Limits(t *testing.T) {
	ctx := context.Background()
	p := NewPool(8, 4)

	_, err := p.Feed(ctx, nil)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))

	_, err = p.Feed(ctx, make([]byte, 5))
	assert.True(t, errors.Is(err, core.ErrPoolOverflow))

	_, err = p.Feed(ctx, make([]byte, 4))
	require.NoError(t, err)
	_, err = p.Feed(ctx, make([]byte, 4))
	require.NoError(t, err)

	total, err := p.Feed(ctx, []byte{1})
	assert.True(t, errors.Is(err, core.ErrPoolOverflow))
	assert.Equal(t, 8, total)

	_, err = p.Take(ctx, 9)
	assert.True(t, errors.Is(err, core.ErrInsufficientEntropy))
	assert.Equal(t, 8, p.Available(), "failed take must not consume")
}

func TestPool_ConcurrentFeed(t *testing.T) {
	ctx := context.Background()
	p := NewPool(DefaultPoolCapacity, DefaultPoolMaxBatch)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Feed(ctx, make([]byte, 100))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5000, p.Available())
}

func TestPooledSource_PrefersPool(t *testing.T) {
	ctx := context.Background()
	p := NewPool(64, 64)
	_, err := p.Feed(ctx, testkit.ConstantStream(0xAB, 40))
	require.NoError(t, err)

	fallback := testkit.NewFixedSource(testkit.PseudoRandomStream("fallback", 64))
	src := NewPooledSource(p, fallback, false)

	r, err := src.ReadWithOrigin(ctx, 32)
	require.NoError(t, err)
	assert.Equal(t, "entropy pool", r.Origin)
	assert.Equal(t, testkit.ConstantStream(0xAB, 32), r.Bytes)
	assert.Equal(t, 0, fallback.Reads())

	// 8 bytes left, so the next read falls back
	r, err = src.ReadWithOrigin(ctx, 32)
	require.NoError(t, err)
	assert.Equal(t, fallback.Name(), r.Origin)
	assert.Equal(t, 1, fallback.Reads())
	assert.Equal(t, 8, p.Available())
}

func TestPooledSource_RequirePool(t *testing.T) {
	src := NewPooledSource(NewPool(64, 64), NewCryptoSource(), true)

	_, err := src.Read(context.Background(), 32)
	assert.True(t, errors.Is(err, core.ErrInsufficientEntropy))
}
