package executors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

func TestRegistry_UnknownTaskType(t *testing.T) {
	r := NewRegistry()
	_, err := r.NewExecutor(ports.TaskSpec{TaskType: "conversation"}, ports.RunContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversation")
}

func TestRegistry_RoutesByTaskType(t *testing.T) {
	r := NewRegistry()
	RegisterPassthrough(r)

	exec, err := r.NewExecutor(ports.TaskSpec{TaskType: PassthroughTaskType}, ports.RunContext{})
	require.NoError(t, err)
	require.NotNil(t, exec)
}

func TestPassthrough_ForwardsPreviousOutput(t *testing.T) {
	r := NewRegistry()
	RegisterPassthrough(r)

	exec, err := r.NewExecutor(ports.TaskSpec{TaskType: PassthroughTaskType}, ports.RunContext{})
	require.NoError(t, err)
	require.NoError(t, exec.LoadResources(context.Background(), "astra", 0))

	out, err := exec.Execute(context.Background(), ports.StageOutput{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out["x"])
	assert.Equal(t, PassthroughTaskType, out["task_type"])
}

func TestPassthrough_FirstStageStartsEmpty(t *testing.T) {
	r := NewRegistry()
	RegisterPassthrough(r)

	exec, err := r.NewExecutor(ports.TaskSpec{TaskType: PassthroughTaskType}, ports.RunContext{})
	require.NoError(t, err)

	out, err := exec.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, PassthroughTaskType, out["task_type"])
}
