package app

import (
	"strings"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// Pricing holds the unit rates for every billable resource of a run.
type Pricing struct {
	// LLMInputPerToken is charged per token of billed conversation prefix.
	LLMInputPerToken float64
	// LLMOutputPerToken is charged per generated token.
	LLMOutputPerToken float64
	// TranscriptionPerSecond is charged per second of call audio.
	TranscriptionPerSecond float64
	// SynthesisPerChar is charged per synthesized character, for
	// character-billed synthesizers only.
	SynthesisPerChar float64
}

// DefaultPricing returns the standard rates: $0.0010 per input token,
// $0.0020 per output token, $0.0043 per transcribed minute, $16 per million
// synthesized characters.
func DefaultPricing() Pricing {
	return Pricing{
		LLMInputPerToken:       0.0010,
		LLMOutputPerToken:      0.0020,
		TranscriptionPerSecond: 0.0043 / 60,
		SynthesisPerChar:       16.0 / 1_000_000,
	}
}

// TokenCostEstimator converts text to currency using a fixed tokenizer and
// fixed unit prices. Both estimates are pure functions of their inputs.
type TokenCostEstimator struct {
	tokenizer ports.Tokenizer
	pricing   Pricing
}

// NewTokenCostEstimator builds an estimator over the given tokenizer and rates.
func NewTokenCostEstimator(tokenizer ports.Tokenizer, pricing Pricing) *TokenCostEstimator {
	return &TokenCostEstimator{tokenizer: tokenizer, pricing: pricing}
}

// EstimateOutputCost prices a set of generated outputs: the summed token
// count across all outputs times the output-token rate.
func (e *TokenCostEstimator) EstimateOutputCost(outputs []string) float64 {
	tokens := 0
	for _, out := range outputs {
		tokens += e.tokenizer.CountTokens(out)
	}
	return float64(tokens) * e.pricing.LLMOutputPerToken
}

// EstimateInputCost prices a transcript under the turn-prefix billing rule:
// system and user content accumulates into a running buffer, and each
// assistant turn bills the entire buffer seen so far (the model consumed
// that prefix as input to produce the turn) before the assistant content is
// appended for the next round. A transcript with no assistant turn bills
// nothing here; CostAccountant covers that case at run end.
func (e *TokenCostEstimator) EstimateInputCost(messages []ports.Message) float64 {
	var prefix strings.Builder
	tokens := 0
	for _, msg := range messages {
		switch msg.Role {
		case ports.RoleSystem, ports.RoleUser:
			prefix.WriteString(msg.Content)
		case ports.RoleAssistant:
			tokens += e.tokenizer.CountTokens(prefix.String())
			prefix.WriteString(msg.Content)
		}
	}
	return float64(tokens) * e.pricing.LLMInputPerToken
}

// EstimatePrefixCost bills the full accumulated system/user prefix once at
// the input rate. Used for transcripts that ended without a single assistant
// turn, where the turn-prefix rule above billed nothing.
func (e *TokenCostEstimator) EstimatePrefixCost(messages []ports.Message) float64 {
	var prefix strings.Builder
	for _, msg := range messages {
		if msg.Role == ports.RoleSystem || msg.Role == ports.RoleUser {
			prefix.WriteString(msg.Content)
		}
	}
	if prefix.Len() == 0 {
		return 0
	}
	return float64(e.tokenizer.CountTokens(prefix.String())) * e.pricing.LLMInputPerToken
}
