// Package adapters provides the concrete implementations of the run
// pipeline's ports: Twilio for telephony, S3 for recordings, DynamoDB for
// run metadata, and in-memory doubles for tests and local runs.
package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// TwilioClient implements ports.TelephonyClient against the Twilio REST API.
// Recording media downloads go over a plain authenticated GET because the
// SDK does not wrap media URLs.
type TwilioClient struct {
	api        *twilio.RestClient
	httpClient *http.Client
	accountSID string
	authToken  string
}

// NewTwilioClient builds a client from account credentials.
func NewTwilioClient(accountSID, authToken string) *TwilioClient {
	return &TwilioClient{
		api: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		accountSID: accountSID,
		authToken:  authToken,
	}
}

// FetchCall returns the provider's metadata for a finished call.
func (c *TwilioClient) FetchCall(ctx context.Context, callSID string) (ports.CallMetadata, error) {
	call, err := c.api.Api.FetchCall(callSID, &twilioapi.FetchCallParams{})
	if err != nil {
		return ports.CallMetadata{}, fmt.Errorf("fetch call %s: %w", callSID, err)
	}
	if call.Duration == nil {
		return ports.CallMetadata{}, fmt.Errorf("call %s has no duration yet", callSID)
	}

	duration, err := strconv.Atoi(*call.Duration)
	if err != nil {
		return ports.CallMetadata{}, fmt.Errorf("call %s duration %q: %w", callSID, *call.Duration, err)
	}

	meta := ports.CallMetadata{
		CallSID:         callSID,
		DurationSeconds: duration,
	}
	if call.Price != nil {
		price, err := strconv.ParseFloat(*call.Price, 64)
		if err != nil {
			return ports.CallMetadata{}, fmt.Errorf("call %s price %q: %w", callSID, *call.Price, err)
		}
		meta.Price = price
	}
	if call.ToFormatted != nil {
		meta.ToFormatted = *call.ToFormatted
	}
	return meta, nil
}

// ListRecordings returns the recordings the provider holds for a call, with
// media URLs derived from the recording SIDs.
func (c *TwilioClient) ListRecordings(ctx context.Context, callSID string) ([]ports.RecordingRef, error) {
	recordings, err := c.api.Api.ListRecording(&twilioapi.ListRecordingParams{
		CallSid: &callSID,
	})
	if err != nil {
		return nil, fmt.Errorf("list recordings for call %s: %w", callSID, err)
	}

	refs := make([]ports.RecordingRef, 0, len(recordings))
	for _, rec := range recordings {
		if rec.Sid == nil {
			continue
		}
		refs = append(refs, ports.RecordingRef{
			SID:      *rec.Sid,
			MediaURL: c.mediaURL(*rec.Sid),
		})
	}
	return refs, nil
}

// Download fetches the recording bytes with basic auth. Any non-2xx status
// is a failure, not a partial result.
func (c *TwilioClient) Download(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", mediaURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download %s: status %d", mediaURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *TwilioClient) mediaURL(recordingSID string) string {
	return fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Recordings/%s.mp3",
		c.accountSID, recordingSID)
}
