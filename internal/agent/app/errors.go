package app

import (
	"errors"
	"fmt"
)

// Domain error sentinels for the run pipeline. Callers distinguish failure
// classes with errors.Is(); a stage failure, a missing provider record, a
// failed archive upload, and a failed metadata write each demand a different
// reaction.

var (
	// ErrStageExecution indicates a task executor failed; the pipeline halts
	// and already-delivered stage results stand.
	ErrStageExecution = errors.New("stage execution failed")

	// ErrMetadataUnavailable indicates the provider has no call or recording
	// for the run; cost accounting must not persist a partial record.
	ErrMetadataUnavailable = errors.New("call metadata unavailable")

	// ErrArchiveUpload indicates the recording could not be fetched or
	// written to durable storage.
	ErrArchiveUpload = errors.New("recording archive upload failed")

	// ErrPersistence indicates the cost record write failed; a run with an
	// unrecorded cost is a silent billing gap, so this is never swallowed.
	ErrPersistence = errors.New("run metadata persistence failed")
)

// StageExecutionError wraps ErrStageExecution with the failing stage index.
func StageExecutionError(stage int, err error) error {
	return fmt.Errorf("stage %d: %v: %w", stage, err, ErrStageExecution)
}

// MetadataUnavailableError wraps ErrMetadataUnavailable with a descriptive message.
func MetadataUnavailableError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrMetadataUnavailable)
}

// ArchiveUploadError wraps ErrArchiveUpload with a descriptive message.
func ArchiveUploadError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrArchiveUpload)
}

// PersistenceError wraps ErrPersistence with the underlying store failure.
func PersistenceError(err error) error {
	return fmt.Errorf("%v: %w", err, ErrPersistence)
}
