package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// runeTokenizer bills one token per rune, which makes expected costs easy to
// read off the test inputs.
type runeTokenizer struct{}

func (runeTokenizer) CountTokens(text string) int {
	return len([]rune(text))
}

func testPricing() Pricing {
	return Pricing{
		LLMInputPerToken:  0.001,
		LLMOutputPerToken: 0.002,
	}
}

func TestEstimateOutputCost_Empty(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	assert.Zero(t, e.EstimateOutputCost(nil))
	assert.Zero(t, e.EstimateOutputCost([]string{}))
}

func TestEstimateOutputCost_SingleOutput(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	assert.InDelta(t, 1*0.002, e.EstimateOutputCost([]string{"a"}), 1e-12)
}

func TestEstimateOutputCost_SumsAcrossOutputs(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	assert.InDelta(t, 5*0.002, e.EstimateOutputCost([]string{"ab", "cde"}), 1e-12)
}

func TestEstimateInputCost_NoAssistantTurns(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	messages := []ports.Message{
		{Role: ports.RoleSystem, Content: "a very long system prompt"},
		{Role: ports.RoleUser, Content: "and plenty of user content"},
	}
	assert.Zero(t, e.EstimateInputCost(messages))
}

func TestEstimateInputCost_BillsPrefixAtAssistantTurn(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	messages := []ports.Message{
		{Role: ports.RoleSystem, Content: "S"},
		{Role: ports.RoleUser, Content: "U"},
		{Role: ports.RoleAssistant, Content: "A"},
	}
	// Exactly tokens("S"+"U") billed once, the assistant turn itself unbilled.
	assert.InDelta(t, 2*0.001, e.EstimateInputCost(messages), 1e-12)
}

func TestEstimateInputCost_AssistantContentJoinsNextPrefix(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())
	messages := []ports.Message{
		{Role: ports.RoleUser, Content: "ab"},
		{Role: ports.RoleAssistant, Content: "cd"},
		{Role: ports.RoleUser, Content: "ef"},
		{Role: ports.RoleAssistant, Content: "gh"},
	}
	// First assistant turn bills "ab" (2); second bills "abcdef" (6).
	assert.InDelta(t, 8*0.001, e.EstimateInputCost(messages), 1e-12)
}

func TestEstimatePrefixCost(t *testing.T) {
	e := NewTokenCostEstimator(runeTokenizer{}, testPricing())

	assert.Zero(t, e.EstimatePrefixCost(nil))

	messages := []ports.Message{
		{Role: ports.RoleSystem, Content: "abc"},
		{Role: ports.RoleUser, Content: "de"},
	}
	assert.InDelta(t, 5*0.001, e.EstimatePrefixCost(messages), 1e-12)
}

func TestDefaultPricing(t *testing.T) {
	p := DefaultPricing()
	assert.InDelta(t, 0.0010, p.LLMInputPerToken, 1e-12)
	assert.InDelta(t, 0.0020, p.LLMOutputPerToken, 1e-12)
	assert.InDelta(t, 0.0043/60, p.TranscriptionPerSecond, 1e-12)
	assert.InDelta(t, 16.0/1_000_000, p.SynthesisPerChar, 1e-12)
}
