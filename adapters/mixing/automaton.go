package mixing

import (
	"fmt"

	"goentropy/domain/core"
	"goentropy/domain/stage"
)

// DefaultGenerations is the number of Rule 30 generations per mix
const DefaultGenerations = 128

// AutomatonMixer evolves the input bits under elementary cellular automaton
// Rule 30 on a ring. Bit 0 is the most significant bit of the first byte.
type AutomatonMixer struct {
	Generations int
}

// NewAutomatonMixer creates a mixer running the given number of generations
func NewAutomatonMixer(generations int) *AutomatonMixer {
	return &AutomatonMixer{Generations: generations}
}

// Mix runs Rule 30, next(i) = left XOR (center OR right), with wrap-around
func (m *AutomatonMixer) Mix(bits []byte, generations int) ([]byte, error) {
	if len(bits) == 0 {
		return nil, core.NewEmptyInputError("automaton state")
	}
	if generations <= 0 {
		return nil, core.NewInvalidParameterError("generations", "must be positive")
	}

	width := len(bits) * 8
	cells := make([]byte, width)
	for i := range cells {
		cells[i] = (bits[i/8] >> (7 - uint(i%8))) & 1
	}

	next := make([]byte, width)
	for g := 0; g < generations; g++ {
		for i := range cells {
			left := cells[(i-1+width)%width]
			right := cells[(i+1)%width]
			next[i] = left ^ (cells[i] | right)
		}
		cells, next = next, cells
	}

	out := make([]byte, len(bits))
	for i, c := range cells {
		out[i/8] |= c << (7 - uint(i%8))
	}
	return out, nil
}

// Stage implements ports.StageTransform
func (m *AutomatonMixer) Stage() stage.StageName {
	return stage.StageCellularAutomaton
}

// Apply implements ports.StageTransform
func (m *AutomatonMixer) Apply(input []byte) ([]byte, error) {
	return m.Mix(input, m.Generations)
}

// Explanation implements ports.StageTransform
func (m *AutomatonMixer) Explanation() string {
	return "Rule 30 is a simple cellular automaton whose evolution looks random; " +
		"running it over the chaotic output spreads local patterns across the whole state."
}

// Describe implements ports.StageTransform
func (m *AutomatonMixer) Describe() string {
	return fmt.Sprintf("Cellular automaton Rule 30 (%d generations, wrap-around boundary)", m.Generations)
}

// Spec implements ports.StageTransform
func (m *AutomatonMixer) Spec() stage.StageSpec {
	return stage.StageSpec{
		Name:   stage.StageCellularAutomaton,
		Config: map[string]any{"rule": 30, "generations": m.Generations, "boundary": "wrap"},
	}
}
