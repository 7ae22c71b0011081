package audit

// HistogramBuckets is the number of histogram buckets, each covering 16 byte values
const HistogramBuckets = 16

// AnomalyKind identifies which rule produced an anomaly
type AnomalyKind string

const (
	AnomalyLowEntropy          AnomalyKind = "low_entropy"
	AnomalyChiSquareHigh       AnomalyKind = "chi_square_high"
	AnomalyChiSquareLow        AnomalyKind = "chi_square_low"
	AnomalyInsufficientSamples AnomalyKind = "insufficient_samples"
	AnomalyDominantByte        AnomalyKind = "dominant_byte"
	AnomalyLongRun             AnomalyKind = "long_run"
	AnomalyMeanBias            AnomalyKind = "mean_bias"
	AnomalySerialCorrelation   AnomalyKind = "serial_correlation"
)

// Anomaly is one triggered rule with its human-readable descriptor
type Anomaly struct {
	Kind        AnomalyKind `json:"kind"`
	Description string      `json:"description"`
}

// AnalysisReport summarizes the randomness quality of one byte stream
type AnalysisReport struct {
	FileSizeBytes     int                   `json:"file_size_bytes"`
	EntropyPerByte    float64               `json:"entropy_per_byte"`
	ChiSquareStat     float64               `json:"chi_square_stat"`
	ChiSquarePValue   float64               `json:"chi_square_p_value"`
	Histogram         [HistogramBuckets]int `json:"histogram"`
	MeanByteValue     float64               `json:"mean_byte_value"`
	SerialCorrelation float64               `json:"serial_correlation"`
	LongestRun        int                   `json:"longest_run"`
	Findings          []Anomaly             `json:"-"`
}

// Anomalies returns the textual anomaly descriptors; never nil
func (r *AnalysisReport) Anomalies() []string {
	out := make([]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		out = append(out, f.Description)
	}
	return out
}

// HasAnomaly reports whether a rule of the given kind fired
func (r *AnalysisReport) HasAnomaly(kind AnomalyKind) bool {
	for _, f := range r.Findings {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// HistogramTotal sums all bucket counts
func (r *AnalysisReport) HistogramTotal() int {
	total := 0
	for _, c := range r.Histogram {
		total += c
	}
	return total
}

// TestsSummary is the subset of a report embedded in draw results
type TestsSummary struct {
	EntropyPerByte float64 `json:"entropy_per_byte"`
	ChiSquareStat  float64 `json:"chi_square_stat"`
}

// Summary extracts the draw-embedded subset
func (r *AnalysisReport) Summary() TestsSummary {
	return TestsSummary{
		EntropyPerByte: r.EntropyPerByte,
		ChiSquareStat:  r.ChiSquareStat,
	}
}
