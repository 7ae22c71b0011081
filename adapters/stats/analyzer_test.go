package stats

import (
	"errors"
	"fmt"
	"testing"

	"goentropy/domain/audit"
	"goentropy/domain/core"
	"goentropy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultThresholds())
	require.NoError(t, err)
	return a
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(nil)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))

	_, err = a.Analyze([]byte{})
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestAnalyze_ConstantStream(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(testkit.ConstantStream(0x41, 10000))
	require.NoError(t, err)

	assert.Equal(t, 10000, report.FileSizeBytes)
	assert.Equal(t, 0.0, report.EntropyPerByte)
	assert.True(t, report.HasAnomaly(audit.AnomalyLowEntropy))
	assert.True(t, report.HasAnomaly(audit.AnomalyDominantByte))
	assert.True(t, report.HasAnomaly(audit.AnomalyLongRun))
	assert.True(t, report.HasAnomaly(audit.AnomalyChiSquareHigh))
	assert.True(t, report.HasAnomaly(audit.AnomalyMeanBias))
	assert.Equal(t, 10000, report.LongestRun)
	assert.Equal(t, 10000, report.Histogram[4])
	assert.Equal(t, 0.0, report.SerialCorrelation)
}

func TestAnalyze_PseudoRandomStream(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(testkit.PseudoRandomStream("analyzer-uniform", 10000))
	require.NoError(t, err)

	assert.Greater(t, report.EntropyPerByte, 7.9)
	assert.LessOrEqual(t, report.EntropyPerByte, 8.0)
	assert.Empty(t, report.Findings, "unexpected anomalies: %v", report.Anomalies())
	assert.NotNil(t, report.Anomalies())
	assert.InDelta(t, 127.5, report.MeanByteValue, 5)
}

func TestAnalyze_CounterStreamIsTooEven(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(testkit.CounterStream(256 * 40))
	require.NoError(t, err)

	assert.InDelta(t, 8.0, report.EntropyPerByte, 1e-9)
	assert.InDelta(t, 0.0, report.ChiSquareStat, 1e-9)
	assert.True(t, report.HasAnomaly(audit.AnomalyChiSquareLow))
	assert.True(t, report.HasAnomaly(audit.AnomalySerialCorrelation))
	assert.False(t, report.HasAnomaly(audit.AnomalyLowEntropy))
	assert.False(t, report.HasAnomaly(audit.AnomalyMeanBias))
	for i, c := range report.Histogram {
		assert.Equal(t, 16*40, c, "bucket %d", i)
	}
}

func TestAnalyze_ShortStreamSkipsChiSquareRules(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze(testkit.PseudoRandomStream("short", 32))
	require.NoError(t, err)

	assert.True(t, report.HasAnomaly(audit.AnomalyInsufficientSamples))
	assert.False(t, report.HasAnomaly(audit.AnomalyChiSquareHigh))
	assert.False(t, report.HasAnomaly(audit.AnomalyChiSquareLow))
	assert.False(t, report.HasAnomaly(audit.AnomalyMeanBias))
}

func TestAnalyze_Invariants(t *testing.T) {
	a := newTestAnalyzer(t)

	streams := map[string][]byte{
		"single byte": {0x00},
		"two values":  {0x00, 0xff, 0x00, 0xff},
		"constant":    testkit.ConstantStream(0xff, 777),
		"counter":     testkit.CounterStream(1000),
	}
	for _, n := range []int{1, 15, 255, 256, 4097, 65536} {
		streams[fmt.Sprintf("random %d", n)] = testkit.PseudoRandomStream(fmt.Sprintf("inv-%d", n), n)
	}

	for name, data := range streams {
		t.Run(name, func(t *testing.T) {
			report, err := a.Analyze(data)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, report.EntropyPerByte, 0.0)
			assert.LessOrEqual(t, report.EntropyPerByte, 8.0)
			assert.GreaterOrEqual(t, report.ChiSquareStat, 0.0)
			assert.Equal(t, len(data), report.HistogramTotal())
			assert.Equal(t, len(data), report.FileSizeBytes)
			assert.NotNil(t, report.Anomalies())
		})
	}
}

func TestAnalyze_TwoSymbolEntropy(t *testing.T) {
	a := newTestAnalyzer(t)

	report, err := a.Analyze([]byte{0x00, 0xff, 0x00, 0xff})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, report.EntropyPerByte, 1e-12)
	assert.Equal(t, [audit.HistogramBuckets]int{0: 2, 15: 2}, report.Histogram)
}

func TestAnalyze_IsPure(t *testing.T) {
	a := newTestAnalyzer(t)
	data := testkit.PseudoRandomStream("pure", 2048)
	original := append([]byte(nil), data...)

	first, err := a.Analyze(data)
	require.NoError(t, err)
	second, err := a.Analyze(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, original, data, "input must not be modified")
}

func TestNewAnalyzer_CriticalValues(t *testing.T) {
	a := newTestAnalyzer(t)
	cv := a.CriticalValues()

	// chi-square(255) quantiles at 0.001 / 0.999
	assert.InDelta(t, 330.5, cv.Upper, 1.5)
	assert.InDelta(t, 190.8, cv.Lower, 1.5)
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"entropy above 8", func(th *Thresholds) { th.MinEntropy = 9 }},
		{"alpha zero", func(th *Thresholds) { th.ChiSquareAlpha = 0 }},
		{"alpha half", func(th *Thresholds) { th.ChiSquareAlpha = 0.5 }},
		{"fraction zero", func(th *Thresholds) { th.MaxByteFraction = 0 }},
		{"run zero", func(th *Thresholds) { th.MaxRunLength = 0 }},
		{"mean deviation zero", func(th *Thresholds) { th.MaxMeanDeviation = 0 }},
		{"correlation above one", func(th *Thresholds) { th.MaxSerialCorrelation = 1.5 }},
		{"min samples zero", func(th *Thresholds) { th.MinSamples = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)
			_, err := NewAnalyzer(th)
			assert.True(t, errors.Is(err, core.ErrInvalidParameter))
		})
	}
}
