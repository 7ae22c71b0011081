package mixing

import (
	"fmt"
	"math"

	"goentropy/domain/core"
	"goentropy/domain/stage"
)

// Logistic map parameters
const (
	DefaultLogisticR         = 3.9999
	DefaultChaoticIterations = 32
	MinLogisticR             = 3.57
	MaxLogisticR             = 4.0
)

// escapeState replaces the state when it lands on a fixed point of the map
const escapeState = 0.123456789

// ChaoticMixer diffuses input bytes through the logistic map x' = r*x*(1-x)
type ChaoticMixer struct {
	R            float64
	Iterations   int
	OutputLength int // 0 means same length as the input
}

// NewChaoticMixer creates a mixer with the given parameters
func NewChaoticMixer(r float64, iterations int) *ChaoticMixer {
	return &ChaoticMixer{R: r, Iterations: iterations}
}

// NewDefaultChaoticMixer creates a mixer with r=3.9999 and 32 iterations per byte
func NewDefaultChaoticMixer() *ChaoticMixer {
	return NewChaoticMixer(DefaultLogisticR, DefaultChaoticIterations)
}

// Mix absorbs every seed byte into the map state, then squeezes one output
// byte per position. Each output byte depends on every input byte.
func (m *ChaoticMixer) Mix(seed []byte, iterations int) ([]byte, error) {
	if len(seed) == 0 {
		return nil, core.NewEmptyInputError("chaotic mixer seed")
	}
	if m.R < MinLogisticR || m.R > MaxLogisticR || math.IsNaN(m.R) {
		return nil, core.NewInvalidParameterError("logistic_r",
			fmt.Sprintf("%g is outside the chaotic band [%.2f, %.1f]", m.R, MinLogisticR, MaxLogisticR))
	}
	if iterations <= 0 {
		return nil, core.NewInvalidParameterError("iterations", "must be positive")
	}

	outLen := len(seed)
	if m.OutputLength > 0 {
		outLen = m.OutputLength
	}

	x := 0.5
	for _, b := range seed {
		x = m.iterate(perturb(x, b), iterations)
	}

	out := make([]byte, outLen)
	for i := range out {
		x = m.iterate(perturb(x, seed[i%len(seed)]), iterations)
		out[i] = fold(x)
	}

	return out, nil
}

func (m *ChaoticMixer) iterate(x float64, n int) float64 {
	for i := 0; i < n; i++ {
		x = float64(m.R * x * (1 - x))
		if x <= 0 || x >= 1 {
			x = escapeState
		}
	}
	return x
}

// perturb shifts the state by (b+1)/257 modulo 1
func perturb(x float64, b byte) float64 {
	x += float64(int(b)+1) / 257
	x -= math.Floor(x)
	if x == 0 {
		x = escapeState
	}
	return x
}

// fold XORs the low 32 bits of the 53-bit mantissa image of x into one byte
func fold(x float64) byte {
	v := uint32(uint64(x * (1 << 53)))
	return byte(v) ^ byte(v>>8) ^ byte(v>>16) ^ byte(v>>24)
}

// Stage implements ports.StageTransform
func (m *ChaoticMixer) Stage() stage.StageName {
	return stage.StageChaotic
}

// Apply implements ports.StageTransform
func (m *ChaoticMixer) Apply(input []byte) ([]byte, error) {
	return m.Mix(input, m.Iterations)
}

// Explanation implements ports.StageTransform
func (m *ChaoticMixer) Explanation() string {
	return "The logistic map is extremely sensitive to initial conditions: every raw byte nudges the state, " +
		"and tiny differences grow exponentially, so each output byte depends on the whole input."
}

// Describe implements ports.StageTransform
func (m *ChaoticMixer) Describe() string {
	return fmt.Sprintf("Chaotic mixing with the logistic map (r=%g, %d iterations per byte)", m.R, m.Iterations)
}

// Spec implements ports.StageTransform
func (m *ChaoticMixer) Spec() stage.StageSpec {
	return stage.StageSpec{
		Name: stage.StageChaotic,
		Config: map[string]any{
			"r":             m.R,
			"iterations":    m.Iterations,
			"output_length": m.OutputLength,
		},
	}
}
