package ports

import (
	"goentropy/domain/audit"
)

// Analyzer computes a randomness-quality report for a byte stream
type Analyzer interface {
	Analyze(data []byte) (*audit.AnalysisReport, error)
}
