package stats

import (
	"fmt"
	"math"

	"goentropy/domain/audit"
	"goentropy/domain/core"
)

// Thresholds configures the anomaly rules
type Thresholds struct {
	MinEntropy           float64 `json:"min_entropy"`
	ChiSquareAlpha       float64 `json:"chi_square_alpha"`
	MinSamples           int     `json:"min_samples"`
	MaxByteFraction      float64 `json:"max_byte_fraction"`
	MaxRunLength         int     `json:"max_run_length"`
	MaxMeanDeviation     float64 `json:"max_mean_deviation"`
	MaxSerialCorrelation float64 `json:"max_serial_correlation"`
}

// DefaultThresholds returns the pinned default thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinEntropy:           7.0,
		ChiSquareAlpha:       0.001,
		MinSamples:           256,
		MaxByteFraction:      0.25,
		MaxRunLength:         8,
		MaxMeanDeviation:     10.0,
		MaxSerialCorrelation: 0.1,
	}
}

// Validate rejects thresholds no rule can work with
func (t Thresholds) Validate() error {
	if t.MinEntropy < 0 || t.MinEntropy > 8 {
		return core.NewInvalidParameterError("min_entropy", "must be within [0, 8]")
	}
	if t.ChiSquareAlpha <= 0 || t.ChiSquareAlpha >= 0.5 {
		return core.NewInvalidParameterError("chi_square_alpha", "must be within (0, 0.5)")
	}
	if t.MinSamples < 1 {
		return core.NewInvalidParameterError("min_samples", "must be positive")
	}
	if t.MaxByteFraction <= 0 || t.MaxByteFraction > 1 {
		return core.NewInvalidParameterError("max_byte_fraction", "must be within (0, 1]")
	}
	if t.MaxRunLength < 1 {
		return core.NewInvalidParameterError("max_run_length", "must be positive")
	}
	if t.MaxMeanDeviation <= 0 {
		return core.NewInvalidParameterError("max_mean_deviation", "must be positive")
	}
	if t.MaxSerialCorrelation <= 0 || t.MaxSerialCorrelation > 1 {
		return core.NewInvalidParameterError("max_serial_correlation", "must be within (0, 1]")
	}
	return nil
}

// CriticalValues are the two-sided chi-square bounds for 255 degrees of freedom
type CriticalValues struct {
	Upper float64
	Lower float64
}

// AnomalyRule is one independent check over the measurements
type AnomalyRule interface {
	Kind() audit.AnomalyKind
	Evaluate(m *Measurements) (audit.Anomaly, bool)
}

// DefaultRules returns the full rule set in reporting order
func DefaultRules(t Thresholds, critical CriticalValues) []AnomalyRule {
	return []AnomalyRule{
		lowEntropyRule{min: t.MinEntropy},
		insufficientSamplesRule{min: t.MinSamples},
		chiSquareHighRule{minSamples: t.MinSamples, critical: critical.Upper, alpha: t.ChiSquareAlpha},
		chiSquareLowRule{minSamples: t.MinSamples, critical: critical.Lower, alpha: t.ChiSquareAlpha},
		dominantByteRule{maxFraction: t.MaxByteFraction},
		longRunRule{maxRun: t.MaxRunLength},
		meanBiasRule{minSamples: t.MinSamples, maxDeviation: t.MaxMeanDeviation},
		serialCorrelationRule{minSamples: t.MinSamples, maxCorrelation: t.MaxSerialCorrelation},
	}
}

type lowEntropyRule struct{ min float64 }

func (r lowEntropyRule) Kind() audit.AnomalyKind { return audit.AnomalyLowEntropy }

func (r lowEntropyRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Entropy >= r.min {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind:        r.Kind(),
		Description: fmt.Sprintf("Low entropy: %.4f bits/byte is below %.1f bits/byte", m.Entropy, r.min),
	}, true
}

type insufficientSamplesRule struct{ min int }

func (r insufficientSamplesRule) Kind() audit.AnomalyKind { return audit.AnomalyInsufficientSamples }

func (r insufficientSamplesRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Size >= r.min {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind:        r.Kind(),
		Description: fmt.Sprintf("Insufficient data for the chi-square test: %d bytes, at least %d required", m.Size, r.min),
	}, true
}

type chiSquareHighRule struct {
	minSamples int
	critical   float64
	alpha      float64
}

func (r chiSquareHighRule) Kind() audit.AnomalyKind { return audit.AnomalyChiSquareHigh }

func (r chiSquareHighRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Size < r.minSamples || m.ChiSquare <= r.critical {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("High chi-square statistic: %.2f exceeds the critical value %.2f (alpha=%g), possible bias",
			m.ChiSquare, r.critical, r.alpha),
	}, true
}

type chiSquareLowRule struct {
	minSamples int
	critical   float64
	alpha      float64
}

func (r chiSquareLowRule) Kind() audit.AnomalyKind { return audit.AnomalyChiSquareLow }

func (r chiSquareLowRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Size < r.minSamples || m.ChiSquare >= r.critical {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("Low chi-square statistic: %.2f is below the critical value %.2f (alpha=%g), distribution is too even to be random",
			m.ChiSquare, r.critical, r.alpha),
	}, true
}

type dominantByteRule struct{ maxFraction float64 }

func (r dominantByteRule) Kind() audit.AnomalyKind { return audit.AnomalyDominantByte }

func (r dominantByteRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Size == 0 {
		return audit.Anomaly{}, false
	}

	top, topCount := 0, 0
	for v, c := range m.Counts {
		if c > topCount {
			top, topCount = v, c
		}
	}

	fraction := float64(topCount) / float64(m.Size)
	if fraction <= r.maxFraction {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("Byte value 0x%02X makes up %.1f%% of the stream (limit %.1f%%)",
			top, fraction*100, r.maxFraction*100),
	}, true
}

type longRunRule struct{ maxRun int }

func (r longRunRule) Kind() audit.AnomalyKind { return audit.AnomalyLongRun }

func (r longRunRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.LongestRun <= r.maxRun {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("Run of %d identical consecutive bytes (0x%02X) exceeds the limit of %d",
			m.LongestRun, m.LongestRunByte, r.maxRun),
	}, true
}

type meanBiasRule struct {
	minSamples   int
	maxDeviation float64
}

func (r meanBiasRule) Kind() audit.AnomalyKind { return audit.AnomalyMeanBias }

func (r meanBiasRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	deviation := math.Abs(m.MeanByteValue - 127.5)
	if m.Size < r.minSamples || deviation <= r.maxDeviation {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("Mean byte value %.2f deviates from 127.5 by more than %.1f",
			m.MeanByteValue, r.maxDeviation),
	}, true
}

type serialCorrelationRule struct {
	minSamples     int
	maxCorrelation float64
}

func (r serialCorrelationRule) Kind() audit.AnomalyKind { return audit.AnomalySerialCorrelation }

func (r serialCorrelationRule) Evaluate(m *Measurements) (audit.Anomaly, bool) {
	if m.Size < r.minSamples || math.Abs(m.SerialCorrelation) <= r.maxCorrelation {
		return audit.Anomaly{}, false
	}
	return audit.Anomaly{
		Kind: r.Kind(),
		Description: fmt.Sprintf("Serial correlation %.4f between consecutive bytes exceeds ±%.2f",
			m.SerialCorrelation, r.maxCorrelation),
	}, true
}
