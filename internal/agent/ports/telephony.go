package ports

import "context"

// CallMetadata is the provider's view of a finished call. Price and duration
// are passed through verbatim; DurationSeconds is only valid once the call
// has fully ended.
type CallMetadata struct {
	CallSID         string
	DurationSeconds int
	Price           float64
	ToFormatted     string
}

// RecordingRef points at one recording the provider holds for a call.
type RecordingRef struct {
	SID      string
	MediaURL string
}

// TelephonyClient is the read-side of the telephony provider: call metadata,
// recording listings, and authenticated media downloads.
type TelephonyClient interface {
	FetchCall(ctx context.Context, callSID string) (CallMetadata, error)
	ListRecordings(ctx context.Context, callSID string) ([]RecordingRef, error)
	Download(ctx context.Context, mediaURL string) ([]byte, error)
}
