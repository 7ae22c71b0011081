package container

import (
	"context"
	"testing"

	"goentropy/internal/config"
	"goentropy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.LogLevel = "ERROR"
	return cfg
}

func TestNewWithSource_WiresEverything(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewWithSource(cfg, testkit.NewSequenceSource("container"))
	require.NoError(t, err)

	assert.NotNil(t, c.Pool)
	assert.NotNil(t, c.DrawSource)
	assert.NotNil(t, c.Analyzer)
	assert.NotNil(t, c.Decoder)
	assert.NotNil(t, c.Seeds)
	assert.NotNil(t, c.Draws)
	assert.NotNil(t, c.Audits)
	assert.NotNil(t, c.Exporter)

	assert.Equal(t, cfg.Pool.Capacity, c.Pool.Capacity())
	assert.Equal(t, cfg.Pool.MaxBatch, c.Pool.MaxBatch())
	assert.Equal(t, cfg.Audit.MinEntropy, c.Analyzer.Thresholds().MinEntropy)
	assert.Equal(t, cfg.Draw.Count, c.Draws.Config().Count)
	assert.Equal(t, cfg.Pipeline.SeedLength, c.Seeds.Config().SeedLength)
}

func TestNewWithSource_Errors(t *testing.T) {
	_, err := NewWithSource(nil, testkit.NewSequenceSource("x"))
	assert.Error(t, err)

	_, err = NewWithSource(testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Audit.ChiSquareAlpha = 0
	_, err = NewWithSource(cfg, testkit.NewSequenceSource("x"))
	assert.Error(t, err)
}

func TestContainer_DrawConsumesPoolFirst(t *testing.T) {
	c, err := NewWithSource(testConfig(t), testkit.NewSequenceSource("pool-first"))
	require.NoError(t, err)

	_, err = c.Pool.Feed(context.Background(), testkit.PseudoRandomStream("fed", 40))
	require.NoError(t, err)

	result, err := c.Draws.Lottery(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Numbers, c.Config.Draw.Count)
	assert.Equal(t, 8, c.Pool.Available())
}
