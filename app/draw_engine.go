package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	sampler "goentropy/adapters/draw"
	"goentropy/adapters/entropy"
	"goentropy/adapters/mixing"
	"goentropy/domain/core"
	"goentropy/domain/draw"
	"goentropy/domain/seed"
	"goentropy/domain/snapshot"
	"goentropy/internal"
	"goentropy/internal/telemetry"
	"goentropy/ports"
)

// DrawConfig describes the lottery: count numbers from Offset..Offset+PoolSize-1
type DrawConfig struct {
	PoolSize      int
	Count         int
	Offset        int
	StreamBytes   int
	TestDataBytes int
}

// DefaultDrawConfig returns a 6-of-49 lottery
func DefaultDrawConfig() DrawConfig {
	return DrawConfig{
		PoolSize:      49,
		Count:         6,
		Offset:        1,
		StreamBytes:   64,
		TestDataBytes: 1000,
	}
}

// Validate checks the draw parameters against each other and the KDF limit
func (c DrawConfig) Validate() error {
	if c.PoolSize <= 0 {
		return core.NewInvalidParameterError("pool_size", "must be positive")
	}
	if c.Count <= 0 || c.Count > c.PoolSize {
		return core.NewInvalidParameterError("count", fmt.Sprintf("must be within 1..%d", c.PoolSize))
	}
	if c.StreamBytes <= 0 || c.StreamBytes > mixing.MaxExpandLength {
		return core.NewInvalidLengthError(c.StreamBytes, mixing.MaxExpandLength)
	}
	if c.TestDataBytes <= 0 || c.TestDataBytes > mixing.MaxExpandLength {
		return core.NewInvalidLengthError(c.TestDataBytes, mixing.MaxExpandLength)
	}
	return nil
}

// Range returns the inclusive range numbers are drawn from
func (c DrawConfig) Range() draw.Range {
	return draw.Range{Min: c.Offset, Max: c.Offset + c.PoolSize - 1}
}

// Verification is the outcome of replaying a published draw
type Verification struct {
	Valid        bool              `json:"valid"`
	Numbers      []int             `json:"draw"`
	SnapshotHash core.SnapshotHash `json:"snapshot_hash"`
}

type originReader interface {
	ReadWithOrigin(ctx context.Context, n int) (*entropy.Reading, error)
}

// DrawEngine turns raw entropy into auditable lottery draws
type DrawEngine struct {
	seeds    *SeedService
	source   ports.EntropySource
	analyzer ports.Analyzer
	config   DrawConfig
	logger   *internal.Logger
}

// NewDrawEngine creates a draw engine
func NewDrawEngine(seeds *SeedService, source ports.EntropySource, analyzer ports.Analyzer, config DrawConfig, logger *internal.Logger) *DrawEngine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DrawEngine{
		seeds:    seeds,
		source:   source,
		analyzer: analyzer,
		config:   config,
		logger:   logger,
	}
}

// Config returns the lottery parameters
func (e *DrawEngine) Config() DrawConfig {
	return e.config
}

// Draw selects count distinct numbers from a pool of poolSize by rejection
// sampling over seed. Numbers are shifted by the configured offset and sorted.
func (e *DrawEngine) Draw(seed []byte, poolSize, count int) (*draw.DrawResult, error) {
	sample, err := sampler.Select(seed, poolSize, count)
	if err != nil {
		return nil, err
	}

	numbers := make([]int, len(sample.Values))
	for i, v := range sample.Values {
		numbers[i] = v + e.config.Offset
	}
	sort.Ints(numbers)

	return &draw.DrawResult{
		Numbers: numbers,
		Range:   draw.Range{Min: e.config.Offset, Max: e.config.Offset + poolSize - 1},
		ProcessingSteps: []string{fmt.Sprintf(
			"Rejection sampling: %d of %d values, %d-bit candidates from %d seed bytes (%d rejected)",
			count, poolSize, sampler.CandidateBits(poolSize), sample.Consumed, sample.Rejected)},
	}, nil
}

// Lottery runs a full draw on fresh raw entropy. A draw served by the
// fallback source derives its seed under the fallback-seed label.
func (e *DrawEngine) Lottery(ctx context.Context) (*draw.DrawResult, error) {
	// reject bad parameters before consuming pool entropy
	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	raw, origin, err := e.readRaw(ctx)
	if err != nil {
		return nil, err
	}

	info := mixing.InfoFinalSeed
	if origin != e.source.Name() {
		info = mixing.InfoFallbackSeed
	}

	result, _, err := e.replay(ctx, raw, origin, info)
	if err != nil {
		return nil, err
	}

	if info == mixing.InfoFallbackSeed {
		result.ProcessingSteps = append([]string{fmt.Sprintf(
			"Entropy pool held fewer than %d bytes, fell back to the %s and derived the seed under %q",
			e.seeds.Config().RawEntropyBytes, origin, info)}, result.ProcessingSteps...)
	}

	e.logger.Info("[DrawEngine] draw %s: %v snapshot=%s", result.RunID, result.Numbers, result.SnapshotHash)
	return result, nil
}

// Verify replays a draw from its published raw entropy under each seed label
// a draw can use and checks the snapshot hash. On a mismatch the
// final-seed replay is reported.
func (e *DrawEngine) Verify(ctx context.Context, rawHex string, expected core.SnapshotHash) (*Verification, error) {
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: raw_entropy: %v", core.ErrMalformedEncoding, err)
	}
	if len(raw) == 0 {
		return nil, core.NewEmptyInputError("raw_entropy")
	}

	var first *draw.DrawResult
	for _, info := range []string{mixing.InfoFinalSeed, mixing.InfoFallbackSeed} {
		result, derived, err := e.replay(ctx, raw, "published raw entropy", info)
		if err != nil {
			return nil, err
		}
		if first == nil {
			first = result
		}

		err = snapshot.Verify(expected, derived.Stages, result.Numbers)
		if err == nil {
			return &Verification{Valid: true, Numbers: result.Numbers, SnapshotHash: result.SnapshotHash}, nil
		}
		if !errors.Is(err, core.ErrHashMismatch) {
			return nil, err
		}
		e.logger.Debug("[DrawEngine] verify under %q: %v", info, err)
	}

	return &Verification{Valid: false, Numbers: first.Numbers, SnapshotHash: first.SnapshotHash}, nil
}

func (e *DrawEngine) readRaw(ctx context.Context) ([]byte, string, error) {
	n := e.seeds.Config().RawEntropyBytes
	if r, ok := e.source.(originReader); ok {
		reading, err := r.ReadWithOrigin(ctx, n)
		if err != nil {
			return nil, "", err
		}
		return reading.Bytes, reading.Origin, nil
	}

	raw, err := e.source.Read(ctx, n)
	if err != nil {
		return nil, "", err
	}
	return raw, e.source.Name(), nil
}

// replay is the deterministic part of a draw: everything after the raw read.
// Numbers are sampled from the final seed itself; only a seed too short for
// the draw is stretched into a draw-stream keyed by that seed.
func (e *DrawEngine) replay(ctx context.Context, raw []byte, origin, info string) (*draw.DrawResult, *seed.SeedResult, error) {
	if err := e.config.Validate(); err != nil {
		return nil, nil, err
	}

	derived, trace, err := e.seeds.DeriveFrom(ctx, raw, info, origin)
	if err != nil {
		return nil, nil, err
	}

	testData, err := mixing.Expand(derived.FinalSeed, mixing.InfoTestData, e.config.TestDataBytes)
	if err != nil {
		return nil, nil, err
	}
	report, err := e.analyzer.Analyze(testData)
	if err != nil {
		return nil, nil, fmt.Errorf("self-test: %w", err)
	}

	picked, source, err := e.drawFromSeed(derived.FinalSeed)
	if err != nil {
		return nil, nil, err
	}

	steps := append([]string(nil), trace.Steps...)
	steps = append(steps,
		fmt.Sprintf("Self-test on %d bytes of the %s stream: %.4f bits/byte entropy, chi-square %.2f",
			len(testData), mixing.InfoTestData, report.EntropyPerByte, report.ChiSquareStat),
		source,
	)
	steps = append(steps, picked.ProcessingSteps...)

	result := &draw.DrawResult{
		RunID:           derived.RunID,
		Numbers:         picked.Numbers,
		Range:           picked.Range,
		ProcessingSteps: steps,
		Tests:           report.Summary(),
		SnapshotHash:    snapshot.ComputeDraw(derived.Stages, picked.Numbers),
		RawEntropy:      hex.EncodeToString(raw),
	}
	result.ProcessingSteps = append(result.ProcessingSteps,
		fmt.Sprintf("Snapshot hash over %d stages and the draw: %s", len(derived.Stages), result.SnapshotHash))

	return result, derived, nil
}

// drawFromSeed samples directly from the final seed. When the seed runs out
// it expands a draw-stream from the seed, doubling it until the draw
// completes or the KDF limit is reached. The returned step names the bytes
// the numbers came from.
func (e *DrawEngine) drawFromSeed(finalSeed []byte) (*draw.DrawResult, string, error) {
	picked, err := e.Draw(finalSeed, e.config.PoolSize, e.config.Count)
	if err == nil {
		return picked, fmt.Sprintf("Sampled directly from the %d-byte final seed", len(finalSeed)), nil
	}
	if !errors.Is(err, core.ErrInsufficientEntropy) {
		return nil, "", err
	}

	n := max(e.config.StreamBytes, 2*len(finalSeed))
	n = min(n, mixing.MaxExpandLength)
	for {
		telemetry.CountDrawExtension()
		e.logger.Debug("[DrawEngine] final seed exhausted, expanding a %d-byte draw stream", n)

		stream, err := mixing.Expand(finalSeed, mixing.InfoDrawStream, n)
		if err != nil {
			return nil, "", err
		}

		picked, err := e.Draw(stream, e.config.PoolSize, e.config.Count)
		if err == nil {
			return picked, fmt.Sprintf("Final seed of %d bytes was exhausted, expanded a %d-byte %s stream from it",
				len(finalSeed), n, mixing.InfoDrawStream), nil
		}
		if !errors.Is(err, core.ErrInsufficientEntropy) || n >= mixing.MaxExpandLength {
			return nil, "", err
		}
		n = min(2*n, mixing.MaxExpandLength)
	}
}
