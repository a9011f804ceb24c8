package ports

// Tokenizer counts tokens in text. Counts must be deterministic for a given
// input so cost estimates are reproducible.
type Tokenizer interface {
	CountTokens(text string) int
}

// CostRecord is the per-run cost breakdown persisted after a call ends.
type CostRecord struct {
	TelephonyCost     float64 `json:"telephony_cost" dynamodbav:"telephony_cost"`
	TranscriptionCost float64 `json:"transcriber_cost" dynamodbav:"transcriber_cost"`
	LLMCost           float64 `json:"llm_cost" dynamodbav:"llm_cost"`
	TTSCost           float64 `json:"tts_cost" dynamodbav:"tts_cost"`
	DurationSeconds   int     `json:"duration" dynamodbav:"duration"`
	ToNumber          string  `json:"to_number" dynamodbav:"to_number"`
	RecordingURL      string  `json:"recording_url" dynamodbav:"recording_url"`
}

// TotalCost sums the four resource costs.
func (r CostRecord) TotalCost() float64 {
	return r.TelephonyCost + r.TranscriptionCost + r.LLMCost + r.TTSCost
}
