package mixing

import (
	"goentropy/domain/stage"

	"golang.org/x/crypto/sha3"
)

// WhitenedLength is the SHA3-256 digest size
const WhitenedLength = 32

// Whitener removes residual structure with SHA3-256
type Whitener struct{}

// NewWhitener creates a whitener
func NewWhitener() *Whitener {
	return &Whitener{}
}

// Whiten returns the SHA3-256 digest of data
func (w *Whitener) Whiten(data []byte) [WhitenedLength]byte {
	return sha3.Sum256(data)
}

// Stage implements ports.StageTransform
func (w *Whitener) Stage() stage.StageName {
	return stage.StageWhitened
}

// Apply implements ports.StageTransform
func (w *Whitener) Apply(input []byte) ([]byte, error) {
	sum := w.Whiten(input)
	return sum[:], nil
}

// Explanation implements ports.StageTransform
func (w *Whitener) Explanation() string {
	return "SHA3-256 whitening removes any remaining bias or structure and compresses the state into 32 uniformly distributed bytes."
}

// Describe implements ports.StageTransform
func (w *Whitener) Describe() string {
	return "Cryptographic whitening with SHA3-256"
}

// Spec implements ports.StageTransform
func (w *Whitener) Spec() stage.StageSpec {
	return stage.StageSpec{Name: stage.StageWhitened, Config: map[string]any{"hash": "sha3-256"}}
}
