// Package executors provides the factory wiring for stage executors. The
// executors themselves (transcription, dialogue, synthesis) are deployment
// concerns registered at startup; the registry only routes a task spec to
// the constructor registered for its task type.
package executors

import (
	"fmt"
	"sync"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// Constructor builds an executor for one stage.
type Constructor func(spec ports.TaskSpec, rc ports.RunContext) (ports.TaskExecutor, error)

// Registry maps task types to executor constructors and implements
// ports.ExecutorFactory.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: map[string]Constructor{}}
}

// Register installs a constructor for a task type, replacing any previous one.
func (r *Registry) Register(taskType string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[taskType] = c
}

// NewExecutor builds the executor for a stage spec.
func (r *Registry) NewExecutor(spec ports.TaskSpec, rc ports.RunContext) (ports.TaskExecutor, error) {
	r.mu.RLock()
	c, ok := r.constructors[spec.TaskType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no executor registered for task type %q", spec.TaskType)
	}
	return c(spec, rc)
}
