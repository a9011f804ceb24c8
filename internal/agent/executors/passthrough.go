package executors

import (
	"context"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// PassthroughTaskType is the task type the built-in passthrough executor
// registers under.
const PassthroughTaskType = "passthrough"

// passthroughExecutor forwards the previous stage's output unchanged. It
// exists so local runs and smoke tests can exercise the pipeline without a
// real transcription or dialogue backend.
type passthroughExecutor struct {
	spec ports.TaskSpec
}

// RegisterPassthrough installs the passthrough executor on a registry.
func RegisterPassthrough(r *Registry) {
	r.Register(PassthroughTaskType, func(spec ports.TaskSpec, _ ports.RunContext) (ports.TaskExecutor, error) {
		return &passthroughExecutor{spec: spec}, nil
	})
}

func (e *passthroughExecutor) LoadResources(_ context.Context, _ string, _ int) error {
	return nil
}

func (e *passthroughExecutor) Execute(_ context.Context, previous ports.StageOutput) (ports.StageOutput, error) {
	out := ports.StageOutput{"task_type": e.spec.TaskType}
	for k, v := range previous {
		out[k] = v
	}
	return out, nil
}
