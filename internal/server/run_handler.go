package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sachanayush47/bolna/internal/agent/app"
	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/observability"
)

// startRunRequest is the first frame a client sends after connecting.
type startRunRequest struct {
	UserID      string            `json:"user_id"`
	AssistantID string            `json:"assistant_id"`
	ContextData map[string]any    `json:"context_data,omitempty"`
	AgentConfig ports.AgentConfig `json:"agent_config"`
}

// runFrame is one websocket frame sent back to the client.
type runFrame struct {
	Type       string            `json:"type"` // stage_result, done, error
	RunID      string            `json:"run_id,omitempty"`
	Stage      *int              `json:"stage,omitempty"`
	Output     ports.StageOutput `json:"output,omitempty"`
	TaskStates []bool            `json:"task_states,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// handleRun upgrades the connection, reads the agent configuration, and
// forwards each stage result as it lands. The run is driven at the pace the
// client consumes frames; a dropped connection cancels in-flight stage work.
func (s *Server) handleRun(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.deps.Logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	connID := uuid.NewString()

	var req startRunRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(runFrame{Type: "error", Error: "invalid start request"})
		return
	}
	if len(req.AgentConfig.Tasks) == 0 {
		_ = conn.WriteJSON(runFrame{Type: "error", Error: "agent config has no tasks"})
		return
	}

	manager := app.NewAssistantManager(
		req.AgentConfig,
		s.deps.Factory,
		req.UserID,
		req.AssistantID,
		req.ContextData,
		s.deps.Logger,
		s.deps.Metrics,
	)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	ctx = observability.ContextWithRunID(ctx, manager.RunID())

	s.deps.Logger.Info("run started",
		"conn_id", connID,
		"run_id", manager.RunID(),
		"assistant", req.AgentConfig.AssistantName,
		"tasks", len(req.AgentConfig.Tasks),
	)

	results := manager.Run(ctx)
	for result := range results {
		stage := result.Stage
		frame := runFrame{
			Type:   "stage_result",
			RunID:  manager.RunID(),
			Stage:  &stage,
			Output: result.Output,
		}
		if err := conn.WriteJSON(frame); err != nil {
			// Client went away. Cancel the run and drain so the
			// producer goroutine can exit.
			cancel()
			for range results {
			}
			s.deps.Logger.Warn("client disconnected mid-run", "run_id", manager.RunID(), "error", err)
			return
		}
	}

	if err := manager.Err(); err != nil {
		_ = conn.WriteJSON(runFrame{Type: "error", RunID: manager.RunID(), Error: err.Error()})
		return
	}

	_ = conn.WriteJSON(runFrame{
		Type:       "done",
		RunID:      manager.RunID(),
		TaskStates: manager.TaskStates(),
	})
}
