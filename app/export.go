package app

import (
	"context"
	"fmt"
	"strings"

	"goentropy/adapters/mixing"
	"goentropy/domain/core"

	"golang.org/x/crypto/sha3"
)

// DefaultNISTMaxBits caps a single bit-string export
const DefaultNISTMaxBits = 10_000_000

// NISTExport is a bit string for external test suites such as NIST STS or dieharder
type NISTExport struct {
	Bits     string
	RunID    core.RunID
	Filename string
}

// NISTExporter derives long bit strings from a pipeline seed
type NISTExporter struct {
	seeds   *SeedService
	maxBits int
}

// NewNISTExporter creates an exporter allowing up to maxBits per request
func NewNISTExporter(seeds *SeedService, maxBits int) *NISTExporter {
	if maxBits <= 0 {
		maxBits = DefaultNISTMaxBits
	}
	return &NISTExporter{seeds: seeds, maxBits: maxBits}
}

// Export runs the pipeline once and stretches its seed to bits bits
func (x *NISTExporter) Export(ctx context.Context, bits int) (*NISTExport, error) {
	if bits <= 0 || bits > x.maxBits {
		return nil, core.NewInvalidParameterError("length", fmt.Sprintf("must be within 1..%d bits", x.maxBits))
	}

	result, err := x.seeds.Derive(ctx, mixing.InfoNISTExport)
	if err != nil {
		return nil, err
	}

	return &NISTExport{
		Bits:     BitString(result.FinalSeed, bits),
		RunID:    result.RunID,
		Filename: fmt.Sprintf("for_tests_%d_bits.txt", bits),
	}, nil
}

// BitString expands seed with SHAKE256 and renders the first bits bits as
// '0'/'1' characters, most significant bit first
func BitString(seed []byte, bits int) string {
	if bits <= 0 {
		return ""
	}

	buf := make([]byte, (bits+7)/8)
	shake := sha3.NewShake256()
	shake.Write(seed)
	shake.Read(buf)

	var sb strings.Builder
	sb.Grow(bits)
	for i := 0; i < bits; i++ {
		if buf[i/8]>>(7-uint(i%8))&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
