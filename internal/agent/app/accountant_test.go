package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachanayush47/bolna/internal/agent/adapters"
	"github.com/sachanayush47/bolna/internal/agent/ports"
)

type fakeTelephony struct {
	call    ports.CallMetadata
	callErr error
	recs    []ports.RecordingRef
	recsErr error
	body    []byte
	dlErr   error
}

func (f *fakeTelephony) FetchCall(context.Context, string) (ports.CallMetadata, error) {
	return f.call, f.callErr
}

func (f *fakeTelephony) ListRecordings(context.Context, string) ([]ports.RecordingRef, error) {
	return f.recs, f.recsErr
}

func (f *fakeTelephony) Download(context.Context, string) ([]byte, error) {
	return f.body, f.dlErr
}

type failingRunStore struct{}

func (failingRunStore) StoreRun(context.Context, string, string, string, ports.CostRecord) error {
	return errors.New("table offline")
}

func accountantPricing() Pricing {
	return Pricing{
		LLMInputPerToken:       0.001,
		LLMOutputPerToken:      0.002,
		TranscriptionPerSecond: 0.5,
		SynthesisPerChar:       0.0001,
	}
}

func testRunContext() ports.RunContext {
	return ports.RunContext{RunID: "asst-1#1700000000000", UserID: "user-1", AssistantID: "asst-1"}
}

func endedCall() *fakeTelephony {
	return &fakeTelephony{
		call: ports.CallMetadata{
			CallSID:         "CA123",
			DurationSeconds: 60,
			Price:           0.85,
			ToFormatted:     "+1 (555) 010-0100",
		},
		recs: []ports.RecordingRef{{SID: "RE1", MediaURL: "https://provider/rec/RE1.mp3"}},
	}
}

func TestComputeCost_HappyPath(t *testing.T) {
	telephony := endedCall()
	store, _ := adapters.NewMemoryStores()
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

	rc := testRunContext()
	record, err := accountant.ComputeCost(context.Background(), rc, CostInputs{
		CallSID: "CA123",
		Transcript: []ports.Message{
			{Role: ports.RoleUser, Content: "ab"},
			{Role: ports.RoleAssistant, Content: "cd"},
		},
		StageLabels:      []string{"xyz"},
		SynthesizerChars: 500,
		SynthesizerModel: CharacterBilledSynthesizer,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.85, record.TelephonyCost, 1e-12)
	assert.InDelta(t, 60*0.5, record.TranscriptionCost, 1e-12)
	// input: "ab" billed at the assistant turn (2 tokens); output: "xyz" (3 tokens).
	assert.InDelta(t, 2*0.001+3*0.002, record.LLMCost, 1e-12)
	assert.InDelta(t, 500*0.0001, record.TTSCost, 1e-12)
	assert.Equal(t, 60, record.DurationSeconds)
	assert.Equal(t, "+1 (555) 010-0100", record.ToNumber)
	assert.Equal(t, "https://provider/rec/RE1.mp3", record.RecordingURL)

	stored, ok := store.GetRun(rc.UserID, rc.AssistantID, rc.RunID)
	require.True(t, ok)
	assert.Equal(t, record, stored)
}

func TestComputeCost_TTSZeroForNonCharacterBilledSynthesizer(t *testing.T) {
	for _, chars := range []int{0, 1, 10_000} {
		telephony := endedCall()
		store, _ := adapters.NewMemoryStores()
		estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
		accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

		record, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{
			CallSID:          "CA123",
			SynthesizerChars: chars,
			SynthesizerModel: "elevenlabs",
		})
		require.NoError(t, err)
		assert.Zero(t, record.TTSCost, "chars=%d", chars)
	}
}

func TestComputeCost_TTSCharacterBilled(t *testing.T) {
	for _, chars := range []int{0, 1, 10_000} {
		telephony := endedCall()
		store, _ := adapters.NewMemoryStores()
		estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
		accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

		record, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{
			CallSID:          "CA123",
			SynthesizerChars: chars,
			SynthesizerModel: CharacterBilledSynthesizer,
		})
		require.NoError(t, err)
		assert.InDelta(t, float64(chars)*0.0001, record.TTSCost, 1e-12, "chars=%d", chars)
	}
}

func TestComputeCost_NoAssistantTurnBillsFullPrefixOnce(t *testing.T) {
	telephony := endedCall()
	store, _ := adapters.NewMemoryStores()
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

	record, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{
		CallSID: "CA123",
		Transcript: []ports.Message{
			{Role: ports.RoleSystem, Content: "abc"},
			{Role: ports.RoleUser, Content: "de"},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 5*0.001, record.LLMCost, 1e-12)
}

func TestComputeCost_ZeroRecordingsFailsBeforePersistence(t *testing.T) {
	telephony := endedCall()
	telephony.recs = nil
	store, _ := adapters.NewMemoryStores()
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

	_, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{CallSID: "CA123"})
	assert.ErrorIs(t, err, ErrMetadataUnavailable)
	assert.Zero(t, store.Len())
}

func TestComputeCost_FetchFailureIsMetadataUnavailable(t *testing.T) {
	telephony := endedCall()
	telephony.callErr = errors.New("unknown call sid")
	store, _ := adapters.NewMemoryStores()
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

	_, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{CallSID: "CA404"})
	assert.ErrorIs(t, err, ErrMetadataUnavailable)
	assert.Zero(t, store.Len())
}

func TestComputeCost_StoreFailureIsPersistenceError(t *testing.T) {
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(endedCall(), failingRunStore{}, estimator, accountantPricing(), nil, nil)

	_, err := accountant.ComputeCost(context.Background(), testRunContext(), CostInputs{CallSID: "CA123"})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestComputeCost_RepeatWriteOverwrites(t *testing.T) {
	telephony := endedCall()
	store, _ := adapters.NewMemoryStores()
	estimator := NewTokenCostEstimator(runeTokenizer{}, accountantPricing())
	accountant := NewCostAccountant(telephony, store, estimator, accountantPricing(), nil, nil)

	rc := testRunContext()
	in := CostInputs{CallSID: "CA123", SynthesizerModel: CharacterBilledSynthesizer, SynthesizerChars: 100}

	first, err := accountant.ComputeCost(context.Background(), rc, in)
	require.NoError(t, err)
	second, err := accountant.ComputeCost(context.Background(), rc, in)
	require.NoError(t, err)

	// One run key, two writes, and the stored record is not a sum of both.
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 2, store.Writes())
	stored, _ := store.GetRun(rc.UserID, rc.AssistantID, rc.RunID)
	assert.Equal(t, second, stored)
	assert.Equal(t, first, second)
}
