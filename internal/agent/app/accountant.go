package app

import (
	"context"
	"fmt"

	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/observability"
)

// CharacterBilledSynthesizer is the synthesizer model billed per character;
// every other model contributes zero synthesis cost.
const CharacterBilledSynthesizer = "polly"

// CostInputs carries everything accumulated over a run that cost accounting
// needs once the call has ended.
type CostInputs struct {
	CallSID     string
	Transcript  []ports.Message
	StageLabels []string

	// TranscriberChars is collected per run but not billed: transcription is
	// priced by call duration, which the provider reports authoritatively.
	TranscriberChars int
	SynthesizerChars int
	SynthesizerModel string
}

// CostAccountant reconstructs a run's cost from the provider's call metadata
// and the run's accumulated transcript, then persists the record.
type CostAccountant struct {
	telephony ports.TelephonyClient
	store     ports.RunStore
	estimator *TokenCostEstimator
	pricing   Pricing
	logger    *observability.Logger
	metrics   *observability.MetricsCollector
}

// NewCostAccountant wires an accountant to its provider, store, and estimator.
func NewCostAccountant(
	telephony ports.TelephonyClient,
	store ports.RunStore,
	estimator *TokenCostEstimator,
	pricing Pricing,
	logger *observability.Logger,
	metrics *observability.MetricsCollector,
) *CostAccountant {
	if logger == nil {
		logger = observability.Nop()
	}
	if metrics == nil {
		metrics = &observability.MetricsCollector{}
	}
	return &CostAccountant{
		telephony: telephony,
		store:     store,
		estimator: estimator,
		pricing:   pricing,
		logger:    logger,
		metrics:   metrics,
	}
}

// ComputeCost prices one completed run and persists the record keyed by the
// run context. It must be called at most once per run, after the call has
// fully ended; the store overwrites on repeat writes rather than
// accumulating. Missing call metadata or a call with zero recordings fails
// with ErrMetadataUnavailable before anything is persisted.
func (a *CostAccountant) ComputeCost(ctx context.Context, rc ports.RunContext, in CostInputs) (ports.CostRecord, error) {
	call, err := a.telephony.FetchCall(ctx, in.CallSID)
	if err != nil {
		return ports.CostRecord{}, MetadataUnavailableError(fmt.Sprintf("fetch call %s: %v", in.CallSID, err))
	}

	recordings, err := a.telephony.ListRecordings(ctx, in.CallSID)
	if err != nil {
		return ports.CostRecord{}, MetadataUnavailableError(fmt.Sprintf("list recordings for call %s: %v", in.CallSID, err))
	}
	if len(recordings) == 0 {
		return ports.CostRecord{}, MetadataUnavailableError(fmt.Sprintf("no recordings for call %s", in.CallSID))
	}

	record := ports.CostRecord{
		TelephonyCost:     call.Price,
		TranscriptionCost: float64(call.DurationSeconds) * a.pricing.TranscriptionPerSecond,
		LLMCost:           a.llmCost(in.Transcript, in.StageLabels),
		TTSCost:           a.ttsCost(in.SynthesizerModel, in.SynthesizerChars),
		DurationSeconds:   call.DurationSeconds,
		ToNumber:          call.ToFormatted,
		RecordingURL:      recordings[0].MediaURL,
	}

	a.logger.Info("saving run cost",
		"run_id", rc.RunID,
		"call_sid", in.CallSID,
		"telephony_cost", record.TelephonyCost,
		"transcriber_cost", record.TranscriptionCost,
		"llm_cost", record.LLMCost,
		"tts_cost", record.TTSCost,
	)

	if err := a.store.StoreRun(ctx, rc.UserID, rc.AssistantID, rc.RunID, record); err != nil {
		return ports.CostRecord{}, PersistenceError(err)
	}
	a.metrics.RecordRunCost(ctx, rc.AssistantID, record.TotalCost())

	return record, nil
}

// llmCost combines turn-prefix input billing with output billing over the
// stage labels. A transcript that never reached an assistant turn is billed
// as one full prefix here, at run end, so the run is not silently free.
func (a *CostAccountant) llmCost(transcript []ports.Message, labels []string) float64 {
	input := a.estimator.EstimateInputCost(transcript)
	if input == 0 && !hasAssistantTurn(transcript) {
		input = a.estimator.EstimatePrefixCost(transcript)
	}
	return input + a.estimator.EstimateOutputCost(labels)
}

func (a *CostAccountant) ttsCost(model string, chars int) float64 {
	if model != CharacterBilledSynthesizer {
		return 0
	}
	return float64(chars) * a.pricing.SynthesisPerChar
}

func hasAssistantTurn(messages []ports.Message) bool {
	for _, msg := range messages {
		if msg.Role == ports.RoleAssistant {
			return true
		}
	}
	return false
}
