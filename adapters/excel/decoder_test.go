package excel

import (
	"errors"
	"testing"

	"goentropy/domain/core"
	"goentropy/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var _ ports.UploadDecoder = (*UploadDecoder)(nil)

func buildWorkbook(t *testing.T, cells map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for axis, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", axis, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	d := NewUploadDecoder(DefaultDecoderConfig())

	tests := []struct {
		filename    string
		contentType string
		want        UploadKind
	}{
		{"numbers.txt", "application/octet-stream", KindText},
		{"NUMBERS.CSV", "", KindText},
		{"server.log", "", KindText},
		{"notes", "text/plain; charset=utf-8", KindText},
		{"sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", KindSpreadsheet},
		{"random.bin", "application/octet-stream", KindBinary},
		{"noext", "", KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Classify(tt.filename, tt.contentType))
		})
	}
}

func TestParseIntegerList(t *testing.T) {
	got, err := ParseIntegerList("1, 2;3\n255\t256 -1\r\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 255, 0, 255}, got)
}

func TestParseIntegerList_AnyUnicodeSpace(t *testing.T) {
	got, err := ParseIntegerList("7\v8\f9\u00a010\u200311\u300012")
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9, 10, 11, 12}, got)
}

func TestParseIntegerList_Errors(t *testing.T) {
	_, err := ParseIntegerList("1, two, 3")
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))

	_, err = ParseIntegerList(" ,;\n")
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestDecode_Binary(t *testing.T) {
	d := NewUploadDecoder(DefaultDecoderConfig())
	content := []byte{0x00, 0xFF, 0x10}

	got, err := d.Decode("blob.bin", "application/octet-stream", content)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDecode_Text(t *testing.T) {
	d := NewUploadDecoder(DefaultDecoderConfig())

	got, err := d.Decode("values.csv", "text/csv", []byte("10,20,30"))
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, got)

	_, err = d.Decode("values.txt", "text/plain", []byte("hello world"))
	assert.True(t, core.IsValidationError(err))
}

func TestDecode_Spreadsheet(t *testing.T) {
	content := buildWorkbook(t, map[string]any{
		"A1": 1,
		"B1": 300,
		"A2": "label",
		"B2": 2.9,
	})

	d := NewUploadDecoder(DefaultDecoderConfig())
	got, err := d.Decode("data.xlsx", "", content)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 44, 2}, got)
}

func TestDecode_SpreadsheetWithoutNumbers(t *testing.T) {
	content := buildWorkbook(t, map[string]any{"A1": "only", "A2": "text"})

	_, err := NewUploadDecoder(DefaultDecoderConfig()).Decode("data.xlsx", "", content)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}

func TestDecode_CorruptSpreadsheet(t *testing.T) {
	_, err := NewUploadDecoder(DefaultDecoderConfig()).Decode("data.xlsx", "", []byte("not a zip"))
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
}

func TestDecode_EmptyAndOversized(t *testing.T) {
	cfg := DefaultDecoderConfig()
	cfg.MaxBytes = 4
	d := NewUploadDecoder(cfg)

	_, err := d.Decode("a.bin", "", nil)
	assert.True(t, errors.Is(err, core.ErrEmptyInput))

	_, err = d.Decode("a.bin", "", []byte{1, 2, 3, 4, 5})
	assert.True(t, errors.Is(err, core.ErrInvalidLength))
}
