// Package entropy provides raw entropy sources for the seed pipeline.
package entropy

import (
	"context"
	"crypto/rand"
	"fmt"

	"goentropy/domain/core"
)

// CryptoSource reads from the operating system CSPRNG
type CryptoSource struct{}

// NewCryptoSource creates an OS-backed entropy source
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Name identifies the source in processing steps
func (s *CryptoSource) Name() string {
	return "operating system CSPRNG"
}

// Read returns n bytes from crypto/rand
func (s *CryptoSource) Read(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, core.NewInvalidParameterError("n", "must be positive")
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read system entropy: %w", err)
	}
	return buf, nil
}
