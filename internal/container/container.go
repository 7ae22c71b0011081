package container

import (
	"fmt"

	"goentropy/adapters/entropy"
	"goentropy/adapters/excel"
	"goentropy/adapters/stats"
	"goentropy/app"
	"goentropy/internal"
	"goentropy/internal/config"
	"goentropy/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Entropy supply
	Pool         *entropy.Pool
	SystemSource ports.EntropySource
	DrawSource   *entropy.PooledSource

	// Adapters
	Analyzer *stats.Analyzer
	Decoder  *excel.UploadDecoder

	// Services
	Seeds    *app.SeedService
	Draws    *app.DrawEngine
	Audits   *app.AuditService
	Exporter *app.NISTExporter
}

// New builds every component from configuration using the OS entropy source
func New(cfg *config.Config) (*Container, error) {
	return NewWithSource(cfg, entropy.NewCryptoSource())
}

// NewWithSource builds every component with the given system entropy source
func NewWithSource(cfg *config.Config, system ports.EntropySource) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if system == nil {
		return nil, fmt.Errorf("entropy source cannot be nil")
	}

	c := &Container{
		Config:       cfg,
		Logger:       internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
		SystemSource: system,
	}

	if err := c.initAdapters(); err != nil {
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}
	c.initServices()

	c.Logger.Info("[Container] initialized: pool capacity %d bytes, draw %d of %d",
		cfg.Pool.Capacity, cfg.Draw.Count, cfg.Draw.PoolSize)
	return c, nil
}

func (c *Container) initAdapters() error {
	analyzer, err := stats.NewAnalyzer(c.thresholds())
	if err != nil {
		return err
	}
	c.Analyzer = analyzer

	decoderConfig := excel.DefaultDecoderConfig()
	decoderConfig.MaxBytes = int(c.Config.Server.MaxUploadBytes)
	c.Decoder = excel.NewUploadDecoder(decoderConfig)

	c.Pool = entropy.NewPool(c.Config.Pool.Capacity, c.Config.Pool.MaxBatch)
	c.DrawSource = entropy.NewPooledSource(c.Pool, c.SystemSource, c.Config.Draw.RequirePoolEntropy)
	return nil
}

func (c *Container) initServices() {
	pipeline := app.PipelineConfig{
		LogisticR:         c.Config.Pipeline.LogisticR,
		ChaoticIterations: c.Config.Pipeline.ChaoticIterations,
		CAGenerations:     c.Config.Pipeline.CAGenerations,
		RawEntropyBytes:   c.Config.Pipeline.RawEntropyBytes,
		SeedLength:        c.Config.Pipeline.SeedLength,
	}
	drawConfig := app.DrawConfig{
		PoolSize:      c.Config.Draw.PoolSize,
		Count:         c.Config.Draw.Count,
		Offset:        c.Config.Draw.Offset,
		StreamBytes:   c.Config.Draw.StreamBytes,
		TestDataBytes: c.Config.Draw.TestDataBytes,
	}

	// demo and export always use system entropy; only draws consume the pool
	c.Seeds = app.NewSeedService(c.SystemSource, pipeline, c.Logger)

	c.Draws = app.NewDrawEngine(c.Seeds, c.DrawSource, c.Analyzer, drawConfig, c.Logger)
	c.Audits = app.NewAuditService(c.Decoder, c.Analyzer, c.Config.Audit.BatchConcurrency, c.Logger)
	c.Exporter = app.NewNISTExporter(c.Seeds, c.Config.Export.NISTMaxBits)
}

func (c *Container) thresholds() stats.Thresholds {
	t := stats.DefaultThresholds()
	t.MinEntropy = c.Config.Audit.MinEntropy
	t.ChiSquareAlpha = c.Config.Audit.ChiSquareAlpha
	t.MaxByteFraction = c.Config.Audit.MaxByteFraction
	t.MaxRunLength = c.Config.Audit.MaxRunLength
	t.MaxMeanDeviation = c.Config.Audit.MaxMeanDeviation
	t.MaxSerialCorrelation = c.Config.Audit.MaxSerialCorrelation
	return t
}
