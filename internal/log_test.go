package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" DEBUG ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestNewDefaultLogger_ReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	assert.Equal(t, LogLevelDebug, NewDefaultLogger().GetLevel())
}
