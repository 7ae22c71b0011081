package mixing

import (
	"fmt"
	"io"

	"goentropy/domain/core"
	"goentropy/domain/stage"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// MaxExpandLength is the HKDF output limit for a 32-byte hash, 255*32
const MaxExpandLength = 255 * WhitenedLength

// HKDF info labels
const (
	InfoFinalSeed    = "final-seed"
	InfoDemo         = "demo"
	InfoTestData     = "test-data"
	InfoDrawStream   = "draw-stream"
	InfoNISTExport   = "nist-export"
	InfoFallbackSeed = "fallback-seed"
)

// Extractor derives output keying material with HKDF-SHA3-256 and no salt
type Extractor struct {
	Info   string
	Length int
}

// NewExtractor creates an extractor bound to one info label and output length
func NewExtractor(info string, length int) *Extractor {
	return &Extractor{Info: info, Length: length}
}

// ExtractAndExpand runs HKDF extract then expand to n bytes
func (e *Extractor) ExtractAndExpand(whitened [WhitenedLength]byte, info []byte, n int) ([]byte, error) {
	return Expand(whitened[:], string(info), n)
}

// Derive is ExtractAndExpand for a whitened slice
func (e *Extractor) Derive(whitened []byte, info string, n int) ([]byte, error) {
	if len(whitened) != WhitenedLength {
		return nil, core.NewInvalidParameterError("whitened",
			fmt.Sprintf("expected %d bytes, got %d", WhitenedLength, len(whitened)))
	}
	var key [WhitenedLength]byte
	copy(key[:], whitened)
	return e.ExtractAndExpand(key, []byte(info), n)
}

// Expand derives n bytes under info from a key of any non-zero length, such
// as a final seed feeding the draw stream and self-test data
func Expand(key []byte, info string, n int) ([]byte, error) {
	if len(key) == 0 {
		return nil, core.NewEmptyInputError("hkdf key")
	}
	if n <= 0 || n > MaxExpandLength {
		return nil, core.NewInvalidLengthError(n, MaxExpandLength)
	}

	out := make([]byte, n)
	kdf := hkdf.New(sha3.New256, key, nil, []byte(info))
	if _, err := io.ReadFull(kdf, out); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return out, nil
}

// Stage implements ports.StageTransform
func (e *Extractor) Stage() stage.StageName {
	return stage.StageFinal
}

// Apply implements ports.StageTransform
func (e *Extractor) Apply(input []byte) ([]byte, error) {
	return e.Derive(input, e.Info, e.Length)
}

// Explanation implements ports.StageTransform
func (e *Extractor) Explanation() string {
	return "HKDF (RFC 5869) extracts a uniform key from the whitened state and expands it, " +
		"bound to a context label, into the final seed."
}

// Describe implements ports.StageTransform
func (e *Extractor) Describe() string {
	return fmt.Sprintf("HKDF-SHA3-256 seed extraction (info=%q, %d bytes)", e.Info, e.Length)
}

// Spec implements ports.StageTransform
func (e *Extractor) Spec() stage.StageSpec {
	return stage.StageSpec{
		Name:   stage.StageFinal,
		Config: map[string]any{"kdf": "hkdf-sha3-256", "info": e.Info, "length": e.Length},
	}
}
