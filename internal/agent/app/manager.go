// Package app implements the assistant run pipeline: sequential task
// orchestration, run identity, cost estimation and accounting, and recording
// archival. External collaborators are injected through the ports package.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/observability"
)

// StageResult is one element of a run's output sequence: the stage index and
// the output that stage produced, already stamped with the run ID.
type StageResult struct {
	Stage  int
	Output ports.StageOutput
}

// AssistantManager drives one assistant run: it executes the configured
// tasks strictly in order, feeding each stage's output into the next, and
// delivers results to the caller one stage at a time.
//
// A manager owns all of its mutable state; independent runs never share
// anything but the external stores behind the ports.
type AssistantManager struct {
	config      ports.AgentConfig
	factory     ports.ExecutorFactory
	contextData map[string]any
	userID      string
	assistantID string
	runID       string

	logger  *observability.Logger
	metrics *observability.MetricsCollector

	mu         sync.Mutex
	taskStates []bool
	runErr     error
}

// NewAssistantManager builds a manager for one run. The run ID is derived
// once, here, and never changes for the lifetime of the manager.
func NewAssistantManager(
	config ports.AgentConfig,
	factory ports.ExecutorFactory,
	userID, assistantID string,
	contextData map[string]any,
	logger *observability.Logger,
	metrics *observability.MetricsCollector,
) *AssistantManager {
	if logger == nil {
		logger = observability.Nop()
	}
	if metrics == nil {
		metrics = &observability.MetricsCollector{}
	}
	return &AssistantManager{
		config:      config,
		factory:     factory,
		contextData: contextData,
		userID:      userID,
		assistantID: assistantID,
		runID:       NewRunID(assistantID, time.Now()),
		logger:      logger,
		metrics:     metrics,
		taskStates:  make([]bool, len(config.Tasks)),
	}
}

// RunID returns the identity of this run.
func (m *AssistantManager) RunID() string {
	return m.runID
}

// RunContext returns the identity shared with every stage executor.
func (m *AssistantManager) RunContext() ports.RunContext {
	return ports.RunContext{
		RunID:       m.runID,
		UserID:      m.userID,
		AssistantID: m.assistantID,
		ContextData: m.contextData,
	}
}

// TaskStates returns a snapshot of per-task completion flags.
func (m *AssistantManager) TaskStates() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]bool, len(m.taskStates))
	copy(states, m.taskStates)
	return states
}

// Err reports why the result sequence ended early. It is only meaningful
// after the channel returned by Run has closed: nil means every stage
// completed, a non-nil error wraps ErrStageExecution (or the context error
// when the caller cancelled).
func (m *AssistantManager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runErr
}

// Run starts the pipeline and returns the lazily produced result sequence.
// The channel is unbuffered: stage i+1 does not start until the caller has
// consumed stage i's result, so the caller can react per stage while the run
// is still in flight. On a stage failure the channel closes after the
// results already delivered; partial results stand and Err reports the
// failure. Run is not restartable; build a fresh manager to re-execute.
func (m *AssistantManager) Run(ctx context.Context) <-chan StageResult {
	results := make(chan StageResult)
	m.metrics.RecordRunStarted(ctx, m.assistantID)

	go func() {
		defer close(results)

		rc := m.RunContext()
		var previous ports.StageOutput

		for i, spec := range m.config.Tasks {
			select {
			case <-ctx.Done():
				m.fail(ctx, ctx.Err())
				return
			default:
			}

			executor, err := m.factory.NewExecutor(spec, rc)
			if err != nil {
				m.fail(ctx, StageExecutionError(i, err))
				return
			}
			if err := executor.LoadResources(ctx, m.config.AssistantName, i); err != nil {
				m.fail(ctx, StageExecutionError(i, err))
				return
			}

			started := time.Now()
			output, err := executor.Execute(ctx, previous)
			if err != nil {
				m.fail(ctx, StageExecutionError(i, err))
				return
			}
			m.metrics.RecordStageDuration(ctx, i, time.Since(started))

			if output == nil {
				output = ports.StageOutput{}
			}
			output["run_id"] = m.runID

			m.mu.Lock()
			m.taskStates[i] = true
			m.mu.Unlock()

			m.logger.Info("stage complete", "run_id", m.runID, "stage", i)

			select {
			case results <- StageResult{Stage: i, Output: output}:
			case <-ctx.Done():
				m.fail(ctx, ctx.Err())
				return
			}
			previous = output
		}

		m.logger.Info("run complete", "run_id", m.runID, "stages", len(m.config.Tasks))
		m.metrics.RecordRunCompleted(ctx, m.assistantID, false)
	}()

	return results
}

func (m *AssistantManager) fail(ctx context.Context, err error) {
	m.mu.Lock()
	m.runErr = err
	m.mu.Unlock()
	m.logger.Error("run halted", "run_id", m.runID, "error", err)
	m.metrics.RecordRunCompleted(ctx, m.assistantID, true)
}
