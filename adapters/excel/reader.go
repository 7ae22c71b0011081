package excel

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"goentropy/domain/core"

	"github.com/xuri/excelize/v2"
)

// SheetReader reads numeric cells from the first worksheet of an .xlsx file
type SheetReader struct{}

// NewSheetReader creates a sheet reader
func NewSheetReader() *SheetReader {
	return &SheetReader{}
}

// ReadFirstSheet returns every numeric cell of the first sheet, row by row,
// each reduced to its low byte
func (r *SheetReader) ReadFirstSheet(content []byte) (*SheetData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, core.NewUnsupportedFormatError("xlsx", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, core.NewEmptyInputError("workbook")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, core.NewUnsupportedFormatError("xlsx", fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}

	data := &SheetData{Sheet: sheets[0]}
	for _, row := range rows {
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			b, ok := cellByte(cell)
			if !ok {
				data.SkippedCells++
				continue
			}
			data.Values = append(data.Values, b)
		}
	}

	log.Printf("[SheetReader] %s read in %.2fms (%d rows, %d numeric cells, %d skipped)",
		sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows), len(data.Values), data.SkippedCells)

	if len(data.Values) == 0 {
		return nil, core.NewEmptyInputError("numeric cells in " + sheets[0])
	}
	return data, nil
}

// cellByte parses a numeric cell and keeps the low byte of its integer part
func cellByte(cell string) (byte, bool) {
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return byte(v & 0xFF), true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return byte(int64(math.Trunc(f)) & 0xFF), true
}
