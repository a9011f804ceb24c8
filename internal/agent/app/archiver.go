package app

import (
	"context"
	"fmt"

	"github.com/sachanayush47/bolna/internal/agent/ports"
	"github.com/sachanayush47/bolna/internal/observability"
)

// RecordingArchiver copies a finished call's recording from the telephony
// provider into durable object storage under a key derived from the run
// identity.
type RecordingArchiver struct {
	telephony ports.TelephonyClient
	store     ports.ObjectStore
	bucket    string
	logger    *observability.Logger
}

// NewRecordingArchiver wires an archiver to the provider and the bucket it
// writes into.
func NewRecordingArchiver(telephony ports.TelephonyClient, store ports.ObjectStore, bucket string, logger *observability.Logger) *RecordingArchiver {
	if logger == nil {
		logger = observability.Nop()
	}
	return &RecordingArchiver{
		telephony: telephony,
		store:     store,
		bucket:    bucket,
		logger:    logger,
	}
}

// ArchiveKey is the object key a run's recording is stored under.
func ArchiveKey(rc ports.RunContext) string {
	return fmt.Sprintf("%s/%s/%s.mp3", rc.UserID, rc.AssistantID, rc.RunID)
}

// Archive downloads the recording over an authenticated request and writes
// it to the object store. Failure on either side surfaces as
// ErrArchiveUpload so a missing archive can be retried; archival never
// affects cost accounting.
func (a *RecordingArchiver) Archive(ctx context.Context, rc ports.RunContext, recordingURL string) error {
	body, err := a.telephony.Download(ctx, recordingURL)
	if err != nil {
		return ArchiveUploadError(fmt.Sprintf("download recording for run %s: %v", rc.RunID, err))
	}

	key := ArchiveKey(rc)
	if err := a.store.Put(ctx, a.bucket, key, body); err != nil {
		return ArchiveUploadError(fmt.Sprintf("put %s/%s: %v", a.bucket, key, err))
	}

	a.logger.Info("recording archived", "run_id", rc.RunID, "bucket", a.bucket, "key", key)
	return nil
}
