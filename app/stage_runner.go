package app

import (
	"context"
	"fmt"
	"time"

	"goentropy/domain/stage"
	"goentropy/internal/telemetry"
	"goentropy/ports"
)

// RunTrace is everything one pipeline execution produced
type RunTrace struct {
	Stages []stage.PipelineStage
	Steps  []string
	Output []byte
	Plan   *stage.StagePlan
}

// StageOutput returns the raw bytes recorded for a stage
func (t *RunTrace) StageOutput(name stage.StageName) ([]byte, error) {
	for _, s := range t.Stages {
		if s.Name == name {
			return s.Bytes()
		}
	}
	return nil, fmt.Errorf("stage %s not in trace", name)
}

// StageRunner executes the stage transforms of a pipeline in plan order
type StageRunner struct {
	transforms []ports.StageTransform
}

// NewStageRunner creates a new stage runner
func NewStageRunner(transforms ...ports.StageTransform) *StageRunner {
	return &StageRunner{transforms: transforms}
}

// Plan returns the stage plan: the raw stage followed by every transform
func (r *StageRunner) Plan() *stage.StagePlan {
	specs := make([]stage.StageSpec, 0, len(r.transforms)+1)
	specs = append(specs, stage.StageSpec{Name: stage.StageRaw})
	for _, t := range r.transforms {
		specs = append(specs, t.Spec())
	}
	return stage.NewStagePlan(specs)
}

// Run records raw as the first stage and feeds it through every transform.
// The context is checked between stages; a cancelled run is discarded.
func (r *StageRunner) Run(ctx context.Context, raw []byte, origin string) (*RunTrace, error) {
	plan := r.Plan()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	trace := &RunTrace{
		Plan:   plan,
		Stages: make([]stage.PipelineStage, 0, len(r.transforms)+1),
		Steps:  make([]string, 0, len(r.transforms)+1),
	}
	trace.Stages = append(trace.Stages, stage.NewPipelineStage(stage.StageRaw, raw,
		fmt.Sprintf("%d raw bytes collected from the %s.", len(raw), origin)))
	trace.Steps = append(trace.Steps, fmt.Sprintf("Collected %d bytes of raw entropy from the %s", len(raw), origin))

	data := raw
	for _, t := range r.transforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := t.Apply(data)
		telemetry.ObserveStage(string(t.Stage()), time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", t.Stage(), err)
		}

		trace.Stages = append(trace.Stages, stage.NewPipelineStage(t.Stage(), out, t.Explanation()))
		trace.Steps = append(trace.Steps, t.Describe())
		data = out
	}

	trace.Output = data
	return trace, nil
}
