package ports

import "context"

// TaskExecutor runs a single pipeline stage. Implementations own the stage
// semantics (transcription, dialogue, synthesis); the orchestrator only
// sequences them.
type TaskExecutor interface {
	// LoadResources loads any stage-specific prompt or resource before the
	// first Execute call.
	LoadResources(ctx context.Context, assistantName string, stage int) error

	// Execute runs the stage against the previous stage's output (nil for
	// the first stage) and returns this stage's output. It may block on
	// backend calls and must honor ctx cancellation.
	Execute(ctx context.Context, previous StageOutput) (StageOutput, error)
}

// ExecutorFactory builds the executor for one stage, bound to its spec and
// the shared run context.
type ExecutorFactory interface {
	NewExecutor(spec TaskSpec, rc RunContext) (TaskExecutor, error)
}

// ExecutorFactoryFunc adapts a function to the ExecutorFactory interface.
type ExecutorFactoryFunc func(spec TaskSpec, rc RunContext) (TaskExecutor, error)

func (f ExecutorFactoryFunc) NewExecutor(spec TaskSpec, rc RunContext) (TaskExecutor, error) {
	return f(spec, rc)
}
