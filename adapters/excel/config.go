package excel

// DecoderConfig controls how uploads are classified
type DecoderConfig struct {
	TextExtensions        []string `json:"text_extensions"`
	SpreadsheetExtensions []string `json:"spreadsheet_extensions"`
	MaxBytes              int      `json:"max_bytes"` // Upper bound on the decoded stream, 0 for none
}

// DefaultDecoderConfig returns the standard upload classification
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		TextExtensions:        []string{".txt", ".csv", ".log"},
		SpreadsheetExtensions: []string{".xlsx"},
		MaxBytes:              0,
	}
}
