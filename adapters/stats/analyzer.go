package stats

import (
	"math"

	"goentropy/domain/audit"
	"goentropy/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// byteDegreesOfFreedom is the chi-square degrees of freedom for 256 byte categories
const byteDegreesOfFreedom = 255

// Measurements holds every statistic the anomaly rules look at
type Measurements struct {
	Size              int
	Counts            [256]int
	Entropy           float64
	ChiSquare         float64
	ChiSquarePValue   float64
	MeanByteValue     float64
	SerialCorrelation float64
	LongestRun        int
	LongestRunByte    byte
}

// Analyzer computes entropy, chi-square, histogram and anomaly flags
type Analyzer struct {
	thresholds Thresholds
	rules      []AnomalyRule
	chiDist    distuv.ChiSquared
	critical   CriticalValues
}

// NewAnalyzer creates an analyzer with the standard rule set
func NewAnalyzer(thresholds Thresholds) (*Analyzer, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}

	chiDist := distuv.ChiSquared{K: byteDegreesOfFreedom}
	critical := CriticalValues{
		Upper: chiDist.Quantile(1 - thresholds.ChiSquareAlpha),
		Lower: chiDist.Quantile(thresholds.ChiSquareAlpha),
	}

	return &Analyzer{
		thresholds: thresholds,
		rules:      DefaultRules(thresholds, critical),
		chiDist:    chiDist,
		critical:   critical,
	}, nil
}

// Thresholds returns the configured rule thresholds
func (a *Analyzer) Thresholds() Thresholds {
	return a.thresholds
}

// CriticalValues returns the chi-square bounds the rules compare against
func (a *Analyzer) CriticalValues() CriticalValues {
	return a.critical
}

// Analyze produces a report for the stream. The stream is not retained.
func (a *Analyzer) Analyze(data []byte) (*audit.AnalysisReport, error) {
	if len(data) == 0 {
		return nil, core.NewEmptyInputError("byte stream")
	}

	m := a.Measure(data)

	report := &audit.AnalysisReport{
		FileSizeBytes:     m.Size,
		EntropyPerByte:    m.Entropy,
		ChiSquareStat:     m.ChiSquare,
		ChiSquarePValue:   m.ChiSquarePValue,
		Histogram:         Histogram(m.Counts),
		MeanByteValue:     m.MeanByteValue,
		SerialCorrelation: m.SerialCorrelation,
		LongestRun:        m.LongestRun,
		Findings:          make([]audit.Anomaly, 0),
	}

	// Every rule is evaluated; all that fire are reported
	for _, rule := range a.rules {
		if anomaly, fired := rule.Evaluate(m); fired {
			report.Findings = append(report.Findings, anomaly)
		}
	}

	return report, nil
}

// Measure computes all statistics in one pass over the counts
func (a *Analyzer) Measure(data []byte) *Measurements {
	m := &Measurements{Size: len(data)}

	run := 0
	for i, b := range data {
		m.Counts[b]++
		if i > 0 && data[i-1] == b {
			run++
		} else {
			run = 1
		}
		if run > m.LongestRun {
			m.LongestRun = run
			m.LongestRunByte = b
		}
	}

	m.Entropy = ShannonEntropy(m.Counts, m.Size)
	m.ChiSquare = ChiSquare(m.Counts, m.Size)
	m.ChiSquarePValue = a.chiDist.Survival(m.ChiSquare)
	m.MeanByteValue, m.SerialCorrelation = moments(data)

	return m
}

// ShannonEntropy returns bits per byte in [0, 8]
func ShannonEntropy(counts [256]int, total int) float64 {
	if total == 0 {
		return 0
	}

	entropy := 0.0
	n := float64(total)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}

	// Clamp rounding noise at both ends
	return math.Min(8, math.Max(0, entropy))
}

// ChiSquare returns the goodness-of-fit statistic against a uniform byte distribution
func ChiSquare(counts [256]int, total int) float64 {
	if total == 0 {
		return 0
	}

	expected := float64(total) / 256.0
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	return chi
}

// Histogram folds byte counts into 16 buckets of 16 contiguous values
func Histogram(counts [256]int) [audit.HistogramBuckets]int {
	var hist [audit.HistogramBuckets]int
	for v, c := range counts {
		hist[v>>4] += c
	}
	return hist
}

// moments returns the mean byte value and the lag-1 serial correlation
func moments(data []byte) (float64, float64) {
	values := make([]float64, len(data))
	for i, b := range data {
		values[i] = float64(b)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		mean = 0
	}

	if len(values) < 2 {
		return mean, 0
	}

	corr, err := stats.Correlation(values[:len(values)-1], values[1:])
	if err != nil || math.IsNaN(corr) {
		corr = 0
	}

	return mean, corr
}
