package app

import (
	"context"
	"fmt"

	"goentropy/adapters/mixing"
	"goentropy/domain/core"
	"goentropy/domain/seed"
	"goentropy/domain/snapshot"
	"goentropy/internal"
	"goentropy/internal/telemetry"
	"goentropy/ports"
)

// PipelineConfig pins the parameters of every mixing stage
type PipelineConfig struct {
	LogisticR         float64
	ChaoticIterations int
	CAGenerations     int
	RawEntropyBytes   int
	SeedLength        int
}

// DefaultPipelineConfig returns r=3.9999, 32 iterations, 128 generations,
// 32 raw bytes and a 32-byte seed
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		LogisticR:         mixing.DefaultLogisticR,
		ChaoticIterations: mixing.DefaultChaoticIterations,
		CAGenerations:     mixing.DefaultGenerations,
		RawEntropyBytes:   32,
		SeedLength:        seed.Length,
	}
}

// Runner builds the mixing chain whose final stage expands with info
func (c PipelineConfig) Runner(info string) *StageRunner {
	return NewStageRunner(
		mixing.NewChaoticMixer(c.LogisticR, c.ChaoticIterations),
		mixing.NewAutomatonMixer(c.CAGenerations),
		mixing.NewWhitener(),
		mixing.NewExtractor(info, c.SeedLength),
	)
}

// SeedService derives seeds from raw entropy through the mixing pipeline
type SeedService struct {
	source ports.EntropySource
	config PipelineConfig
	logger *internal.Logger
}

// NewSeedService creates a seed service
func NewSeedService(source ports.EntropySource, config PipelineConfig, logger *internal.Logger) *SeedService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SeedService{source: source, config: config, logger: logger}
}

// Config returns the pinned pipeline parameters
func (s *SeedService) Config() PipelineConfig {
	return s.config
}

// Derive reads fresh raw entropy and runs the pipeline under info
func (s *SeedService) Derive(ctx context.Context, info string) (*seed.SeedResult, error) {
	raw, err := s.source.Read(ctx, s.config.RawEntropyBytes)
	if err != nil {
		return nil, fmt.Errorf("read raw entropy: %w", err)
	}
	result, _, err := s.DeriveFrom(ctx, raw, info, s.source.Name())
	return result, err
}

// DeriveFrom runs the pipeline over caller-supplied raw entropy. The same
// raw bytes and info always produce the same stages, seed and snapshot hash.
func (s *SeedService) DeriveFrom(ctx context.Context, raw []byte, info, origin string) (*seed.SeedResult, *RunTrace, error) {
	if len(raw) == 0 {
		return nil, nil, core.NewEmptyInputError("raw entropy")
	}

	trace, err := s.config.Runner(info).Run(ctx, raw, origin)
	telemetry.CountPipelineRun(info, err)
	if err != nil {
		s.logger.Warn("[SeedService] pipeline %q failed: %v", info, err)
		return nil, nil, err
	}

	result := &seed.SeedResult{
		RunID:        core.NewRunID(),
		FinalSeed:    trace.Output,
		SnapshotHash: snapshot.ComputeTrace(trace.Stages),
		Stages:       trace.Stages,
		PlanHash:     trace.Plan.Hash(),
	}

	s.logger.Debug("[SeedService] run %s info=%q snapshot=%s", result.RunID, info, result.SnapshotHash)
	return result, trace, nil
}
