package excel

// UploadKind is how an uploaded file is turned into a byte stream
type UploadKind string

const (
	KindBinary      UploadKind = "binary"
	KindText        UploadKind = "text"
	KindSpreadsheet UploadKind = "spreadsheet"
)

// SheetData holds the byte values read from one worksheet
type SheetData struct {
	Sheet        string // Worksheet name
	Values       []byte // Numeric cells reduced to bytes, row-major
	SkippedCells int    // Non-empty cells that were not numeric
}
