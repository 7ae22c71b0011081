package snapshot

import (
	"errors"
	"testing"

	"goentropy/domain/core"
	"goentropy/domain/stage"

	"github.com/stretchr/testify/assert"
)

func sampleTrace() []stage.PipelineStage {
	return []stage.PipelineStage{
		stage.NewPipelineStage(stage.StageRaw, []byte{1, 2, 3, 4}, "raw"),
		stage.NewPipelineStage(stage.StageChaotic, []byte{5, 6, 7, 8}, "chaotic"),
		stage.NewPipelineStage(stage.StageCellularAutomaton, []byte{9, 10, 11, 12}, "ca"),
		stage.NewPipelineStage(stage.StageWhitened, []byte{13, 14, 15, 16}, "hash"),
		stage.NewPipelineStage(stage.StageFinal, []byte{17, 18, 19, 20}, "hkdf"),
	}
}

func TestComputeTrace_Deterministic(t *testing.T) {
	assert.Equal(t, ComputeTrace(sampleTrace()), ComputeTrace(sampleTrace()))
}

func TestComputeTrace_DetectsSingleByteTamper(t *testing.T) {
	base := ComputeTrace(sampleTrace())

	for i := range sampleTrace() {
		trace := sampleTrace()
		b, _ := trace[i].Bytes()
		b[len(b)-1] ^= 0x01
		trace[i] = stage.NewPipelineStage(trace[i].Name, b, trace[i].Explanation)

		assert.NotEqual(t, base, ComputeTrace(trace), "tampering with stage %s must change the hash", trace[i].Name)
	}
}

func TestComputeDraw_BindsNumbers(t *testing.T) {
	trace := sampleTrace()
	a := ComputeDraw(trace, []int{1, 2, 3, 4, 5, 6})
	b := ComputeDraw(trace, []int{1, 2, 3, 4, 5, 7})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, ComputeTrace(trace), a)
}

func TestVerify(t *testing.T) {
	trace := sampleTrace()
	numbers := []int{3, 9, 14, 27, 33, 48}
	snap := New(trace, numbers)

	assert.NoError(t, Verify(snap.Hash, trace, numbers))

	err := Verify(snap.Hash, trace, []int{3, 9, 14, 27, 33, 49})
	assert.True(t, errors.Is(err, core.ErrHashMismatch))
}
