package config

import (
	"fmt"
	"os"
	"strconv"

	"goentropy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Pipeline PipelineConfig
	Draw     DrawConfig
	Audit    AuditConfig
	Pool     PoolConfig
	Export   ExportConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	MaxUploadBytes int64
	MetricsEnabled bool
}

// PipelineConfig holds the mixing stage parameters
type PipelineConfig struct {
	LogisticR         float64
	ChaoticIterations int
	CAGenerations     int
	RawEntropyBytes   int
	SeedLength        int
}

// DrawConfig holds the lottery parameters
type DrawConfig struct {
	PoolSize           int
	Count              int
	Offset             int
	StreamBytes        int
	TestDataBytes      int
	RequirePoolEntropy bool
}

// AuditConfig holds the anomaly thresholds and batch fan-out
type AuditConfig struct {
	MinEntropy           float64
	ChiSquareAlpha       float64
	MaxByteFraction      float64
	MaxRunLength         int
	MaxMeanDeviation     float64
	MaxSerialCorrelation float64
	BatchConcurrency     int
}

// PoolConfig holds entropy pool limits
type PoolConfig struct {
	Capacity int
	MaxBatch int
}

// ExportConfig holds bit-string export limits
type ExportConfig struct {
	NISTMaxBits int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Pipeline: *loadPipelineConfig(),
		Draw:     *loadDrawConfig(),
		Audit:    *loadAuditConfig(),
		Pool:     *loadPoolConfig(),
		Export:   *loadExportConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 16<<20)),
		MetricsEnabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		LogisticR:         getEnvFloatOrDefault("LOGISTIC_R", 3.9999),
		ChaoticIterations: getEnvIntOrDefault("CHAOTIC_ITERATIONS", 32),
		CAGenerations:     getEnvIntOrDefault("CA_GENERATIONS", 128),
		RawEntropyBytes:   getEnvIntOrDefault("RAW_ENTROPY_BYTES", 32),
		SeedLength:        getEnvIntOrDefault("SEED_LENGTH", 32),
	}
}

func loadDrawConfig() *DrawConfig {
	return &DrawConfig{
		PoolSize:           getEnvIntOrDefault("DRAW_POOL_SIZE", 49),
		Count:              getEnvIntOrDefault("DRAW_COUNT", 6),
		Offset:             getEnvIntOrDefault("DRAW_OFFSET", 1),
		StreamBytes:        getEnvIntOrDefault("DRAW_STREAM_BYTES", 64),
		TestDataBytes:      getEnvIntOrDefault("TEST_DATA_BYTES", 1000),
		RequirePoolEntropy: getEnvBoolOrDefault("REQUIRE_POOL_ENTROPY", false),
	}
}

func loadAuditConfig() *AuditConfig {
	return &AuditConfig{
		MinEntropy:           getEnvFloatOrDefault("MIN_ENTROPY", 7.0),
		ChiSquareAlpha:       getEnvFloatOrDefault("CHI_SQUARE_ALPHA", 0.001),
		MaxByteFraction:      getEnvFloatOrDefault("MAX_BYTE_FRACTION", 0.25),
		MaxRunLength:         getEnvIntOrDefault("MAX_RUN_LENGTH", 8),
		MaxMeanDeviation:     getEnvFloatOrDefault("MAX_MEAN_DEVIATION", 10.0),
		MaxSerialCorrelation: getEnvFloatOrDefault("MAX_SERIAL_CORRELATION", 0.1),
		BatchConcurrency:     getEnvIntOrDefault("AUDIT_BATCH_CONCURRENCY", 4),
	}
}

func loadPoolConfig() *PoolConfig {
	return &PoolConfig{
		Capacity: getEnvIntOrDefault("POOL_CAPACITY", 1<<20),
		MaxBatch: getEnvIntOrDefault("POOL_MAX_BATCH", 4096),
	}
}

func loadExportConfig() *ExportConfig {
	return &ExportConfig{
		NISTMaxBits: getEnvIntOrDefault("NIST_MAX_BITS", 10_000_000),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Pipeline.RawEntropyBytes <= 0 {
		return errors.ConfigInvalid("RAW_ENTROPY_BYTES must be positive")
	}
	if config.Pipeline.SeedLength <= 0 || config.Pipeline.SeedLength > 255*32 {
		return errors.ConfigInvalid("SEED_LENGTH must be within 1..8160")
	}
	if config.Pipeline.ChaoticIterations <= 0 || config.Pipeline.CAGenerations <= 0 {
		return errors.ConfigInvalid("CHAOTIC_ITERATIONS and CA_GENERATIONS must be positive")
	}
	if config.Pipeline.LogisticR < 3.57 || config.Pipeline.LogisticR > 4.0 {
		return errors.ConfigInvalid(fmt.Sprintf("LOGISTIC_R %g is outside [3.57, 4.0]", config.Pipeline.LogisticR))
	}
	if config.Draw.Count <= 0 || config.Draw.Count > config.Draw.PoolSize {
		return errors.ConfigInvalid("DRAW_COUNT must be within 1..DRAW_POOL_SIZE")
	}
	if config.Audit.BatchConcurrency <= 0 {
		return errors.ConfigInvalid("AUDIT_BATCH_CONCURRENCY must be positive")
	}
	if config.Pool.Capacity <= 0 || config.Pool.MaxBatch <= 0 {
		return errors.ConfigInvalid("POOL_CAPACITY and POOL_MAX_BATCH must be positive")
	}
	if config.Export.NISTMaxBits <= 0 {
		return errors.ConfigInvalid("NIST_MAX_BITS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
