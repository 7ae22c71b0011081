package ports

import (
	"goentropy/domain/stage"
)

// StageTransform is one pure step of the seed pipeline
type StageTransform interface {
	// Stage returns the stage this transform produces
	Stage() stage.StageName

	// Apply maps the previous stage output to this stage output
	Apply(input []byte) ([]byte, error)

	// Explanation is the human-readable rationale shown with the stage output
	Explanation() string

	// Describe is the processing-step line recorded when the stage runs
	Describe() string

	// Spec returns the pinned parameters of the stage for plan hashing
	Spec() stage.StageSpec
}
