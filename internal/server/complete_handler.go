package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sachanayush47/bolna/internal/agent/app"
	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/observability"
)

// completeRequest settles a finished run: price the call and archive its
// recording.
type completeRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	AssistantID string `json:"assistant_id" binding:"required"`
	RunID       string `json:"run_id" binding:"required"`
	CallSID     string `json:"call_sid" binding:"required"`

	Transcript       []ports.Message `json:"transcript"`
	StageLabels      []string        `json:"stage_labels"`
	TranscriberChars int             `json:"transcriber_chars"`
	SynthesizerChars int             `json:"synthesizer_chars"`
	SynthesizerModel string          `json:"synthesizer_model"`
}

// completeResponse reports accounting and archival outcomes separately: a
// failed archive does not invalidate a persisted cost record.
type completeResponse struct {
	Cost         ports.CostRecord `json:"cost"`
	ArchiveError string           `json:"archive_error,omitempty"`
}

func (s *Server) handleComplete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rc := ports.RunContext{
		RunID:       req.RunID,
		UserID:      req.UserID,
		AssistantID: req.AssistantID,
	}

	ctx := observability.ContextWithRunID(c.Request.Context(), req.RunID)
	ctx = observability.ContextWithCallSID(ctx, req.CallSID)

	record, err := s.deps.Accountant.ComputeCost(ctx, rc, app.CostInputs{
		CallSID:          req.CallSID,
		Transcript:       req.Transcript,
		StageLabels:      req.StageLabels,
		TranscriberChars: req.TranscriberChars,
		SynthesizerChars: req.SynthesizerChars,
		SynthesizerModel: req.SynthesizerModel,
	})
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "cost accounting failed", "error", err)
		switch {
		case errors.Is(err, app.ErrMetadataUnavailable):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, app.ErrPersistence):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	resp := completeResponse{Cost: record}
	if err := s.deps.Archiver.Archive(ctx, rc, record.RecordingURL); err != nil {
		// Reported distinctly; the cost record already stands.
		s.deps.Logger.ErrorContext(ctx, "recording archive failed", "error", err)
		resp.ArchiveError = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}
