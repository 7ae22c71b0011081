package excel

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"goentropy/domain/core"
)

// UploadDecoder turns uploads into byte streams: text files as integer lists,
// spreadsheets as numeric cells, anything else as raw bytes.
type UploadDecoder struct {
	config DecoderConfig
	sheets *SheetReader
}

// NewUploadDecoder creates a decoder with the given classification rules
func NewUploadDecoder(config DecoderConfig) *UploadDecoder {
	return &UploadDecoder{config: config, sheets: NewSheetReader()}
}

// Classify decides how a file will be decoded
func (d *UploadDecoder) Classify(filename, contentType string) UploadKind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case slices.Contains(d.config.SpreadsheetExtensions, ext):
		return KindSpreadsheet
	case slices.Contains(d.config.TextExtensions, ext), strings.HasPrefix(contentType, "text/"):
		return KindText
	default:
		return KindBinary
	}
}

// Decode implements ports.UploadDecoder
func (d *UploadDecoder) Decode(filename, contentType string, content []byte) ([]byte, error) {
	if len(content) == 0 {
		return nil, core.NewEmptyInputError("uploaded file")
	}

	var out []byte
	switch d.Classify(filename, contentType) {
	case KindSpreadsheet:
		sheet, err := d.sheets.ReadFirstSheet(content)
		if err != nil {
			return nil, err
		}
		out = sheet.Values
	case KindText:
		values, err := ParseIntegerList(string(content))
		if err != nil {
			return nil, err
		}
		out = values
	default:
		out = content
	}

	if d.config.MaxBytes > 0 && len(out) > d.config.MaxBytes {
		return nil, core.NewInvalidLengthError(len(out), d.config.MaxBytes)
	}
	return out, nil
}

// ParseIntegerList parses integers separated by whitespace, commas or
// semicolons, keeping the low byte of each
func ParseIntegerList(text string) ([]byte, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	if len(fields) == 0 {
		return nil, core.NewEmptyInputError("integer list")
	}

	out := make([]byte, 0, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, core.NewUnsupportedFormatError("text",
				fmt.Errorf("token %d %q is not an integer", i+1, field))
		}
		out = append(out, byte(v&0xFF))
	}
	return out, nil
}
